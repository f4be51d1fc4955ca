package form

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookform/internal/logging"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/client"
	"github.com/goliatone/go-bookform/pkg/render"
)

//go:generate mockgen -destination=mocks/remote.go -package=mocks github.com/goliatone/go-bookform/pkg/form Remote

// Remote is the part of the record client the controller drives.
type Remote interface {
	Create(ctx context.Context, payload book.Payload) (book.Record, error)
	FetchOne(ctx context.Context, id book.ID) (book.Record, error)
	Update(ctx context.Context, id book.ID, payload book.Payload) error
}

// Notifier shows a blocking message (an alert, a flash, a terminal line).
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}

// Refresher reloads the record list after a successful write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// View is a snapshot of the controller for renderers.
type View struct {
	Values        book.Values
	State         EditState
	SubmitLabel   string
	CancelVisible bool
	Error         string
	ErrorVisible  bool
	InvalidField  string
}

// Controller owns the form values, the edit state and the error area. It is
// not safe for concurrent use; one UI goroutine drives it.
type Controller struct {
	remote     Remote
	notifier   Notifier
	refresher  Refresher
	translator render.Translator
	locale     string
	logger     *zap.Logger

	values       book.Values
	state        EditState
	errMsg       string
	invalidField string
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier routes edit-mode failures to n.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithRefresher is called after every successful create or update.
func WithRefresher(r Refresher) Option {
	return func(c *Controller) {
		c.refresher = r
	}
}

// WithTranslator localises messages and labels for locale.
func WithTranslator(t render.Translator, locale string) Option {
	return func(c *Controller) {
		c.translator = t
		c.locale = render.ResolveLocale(locale)
	}
}

// WithLogger sets the logger used for controller events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.OrNop(l)
	}
}

// New constructs an Idle controller with empty values.
func New(remote Remote, options ...Option) *Controller {
	c := &Controller{
		remote: remote,
		locale: render.DefaultLocale,
		logger: zap.NewNop(),
		values: book.EmptyValues(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Restore rebuilds a controller from state carried by a stateless front-end.
func (c *Controller) Restore(state EditState, values book.Values) {
	c.state = state
	c.values = values.Clone()
}

// State returns the edit state.
func (c *Controller) State() EditState {
	return c.state
}

// Values returns a copy of the current form values.
func (c *Controller) Values() book.Values {
	return c.values.Clone()
}

// ErrorMessage returns the error area contents; empty means hidden.
func (c *Controller) ErrorMessage() string {
	return c.errMsg
}

// View returns a snapshot for renderers.
func (c *Controller) View() View {
	return View{
		Values:        c.values.Clone(),
		State:         c.state,
		SubmitLabel:   c.submitLabel(),
		CancelVisible: c.state.CancelVisible(),
		Error:         c.errMsg,
		ErrorVisible:  c.errMsg != "",
		InvalidField:  c.invalidField,
	}
}

// Submit validates values and, when valid, creates or updates depending on
// the edit state. Validation failures fill the error area without contacting
// the backend. Remote failures fill the error area and leave state and values
// untouched. Success clears the form, returns to Idle and refreshes the list.
func (c *Controller) Submit(ctx context.Context, values book.Values) error {
	c.values = values.Clone()
	payload := book.PayloadFromValues(c.values)

	if err := book.Validate(payload); err != nil {
		var invalid *book.ValidationError
		if errors.As(err, &invalid) {
			c.setError(c.tr(invalid.Key, invalid.Message), invalid.Field)
		} else {
			c.setError(err.Error(), "")
		}
		c.logger.Debug("submit rejected", logging.With(logging.SubmitForm, zap.String("reason", c.errMsg))...)
		return err
	}

	var err error
	if id, editing := c.state.ID(); editing {
		err = c.remote.Update(ctx, id, payload)
		if err == nil {
			c.logger.Info("book updated", logging.With(logging.UpdateBook, logging.BookID(id))...)
		}
	} else {
		var created book.Record
		created, err = c.remote.Create(ctx, payload)
		if err == nil {
			c.logger.Info("book created", logging.With(logging.CreateBook, logging.BookID(created.ID))...)
		}
	}
	if err != nil {
		c.setError(c.remoteMessage(err), "")
		c.logger.Warn("submit failed", logging.With(logging.SubmitForm, zap.Stringer("state", c.state), zap.Error(err))...)
		return err
	}

	c.reset()
	if c.refresher != nil {
		if rerr := c.refresher.Refresh(ctx); rerr != nil {
			c.logger.Warn("refresh after submit failed", logging.With(logging.ListBooks, zap.Error(rerr))...)
		}
	}
	return nil
}

// EnterEditMode loads id into the form and switches to Editing(id). On
// failure the notifier is told and nothing else changes.
func (c *Controller) EnterEditMode(ctx context.Context, id book.ID) error {
	rec, err := c.remote.FetchOne(ctx, id)
	if err != nil {
		detail := c.remoteMessage(err)
		c.notify(ctx, render.Translate(c.translator, nil, c.locale, render.KeyEditFailed, "수정 모드 진입 실패: "+detail, detail))
		c.logger.Warn("enter edit mode failed", logging.With(logging.EnterEditMode, logging.BookID(id), zap.Error(err))...)
		return err
	}

	c.values = book.ValuesFromRecord(rec)
	c.state = Editing(id)
	c.logger.Debug("edit mode entered", logging.With(logging.EnterEditMode, logging.BookID(id))...)
	return nil
}

// Cancel clears the form, returns to Idle and hides the error area. Calling
// it while Idle is harmless.
func (c *Controller) Cancel() {
	c.reset()
	c.logger.Debug("edit cancelled", logging.With(logging.CancelEdit)...)
}

func (c *Controller) reset() {
	c.values = book.EmptyValues()
	c.state = Idle()
	c.errMsg = ""
	c.invalidField = ""
}

func (c *Controller) setError(message, field string) {
	c.errMsg = message
	c.invalidField = field
}

func (c *Controller) notify(ctx context.Context, message string) {
	if c.notifier != nil {
		c.notifier.Notify(ctx, message)
	}
}

func (c *Controller) submitLabel() string {
	if c.state.IsEditing() {
		return c.tr(render.KeySubmitUpdate, c.state.SubmitLabel())
	}
	return c.tr(render.KeySubmitCreate, c.state.SubmitLabel())
}

func (c *Controller) tr(key, fallback string) string {
	return render.Translate(c.translator, nil, c.locale, key, fallback)
}

func (c *Controller) remoteMessage(err error) string {
	var transport *client.TransportError
	if errors.As(err, &transport) {
		detail := transport.Err.Error()
		return render.Translate(c.translator, nil, c.locale, render.KeyTransportPrefix, transport.Message(), detail)
	}
	return client.UserMessage(err)
}
