// Package bookform composes the book form controller and the record list into
// a single page model that front-ends load, drive and render.
package bookform

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookform/internal/logging"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/form"
	"github.com/goliatone/go-bookform/pkg/listing"
	"github.com/goliatone/go-bookform/pkg/render"
)

// DefaultFormAction is where the rendered form posts.
const DefaultFormAction = "/books"

// Remote is everything a page needs from the record client.
type Remote interface {
	form.Remote
	listing.Remote
}

// Page owns one form controller and one list. It is driven by a single UI
// goroutine.
type Page struct {
	form *form.Controller
	list *listing.List

	translator render.Translator
	locale     string
	formAction string
	theme      *render.ThemeView
	notifier   form.Notifier
	logger     *zap.Logger

	notice string
}

// Option configures a Page.
type Option func(*Page)

// WithTranslator localises every label and message for locale.
func WithTranslator(t render.Translator, locale string) Option {
	return func(p *Page) {
		p.translator = t
		p.locale = render.ResolveLocale(locale)
	}
}

// WithNotifier forwards blocking messages to n in addition to the page
// notice.
func WithNotifier(n form.Notifier) Option {
	return func(p *Page) {
		p.notifier = n
	}
}

// WithLogger sets the logger shared by the controller and the list.
func WithLogger(l *zap.Logger) Option {
	return func(p *Page) {
		p.logger = logging.OrNop(l)
	}
}

// WithFormAction overrides DefaultFormAction.
func WithFormAction(action string) Option {
	return func(p *Page) {
		if action != "" {
			p.formAction = action
		}
	}
}

// WithTheme attaches a resolved theme to every view.
func WithTheme(view *render.ThemeView) Option {
	return func(p *Page) {
		p.theme = view
	}
}

// NewPage wires a controller and a list over remote. The list is refreshed
// after every successful submit.
func NewPage(remote Remote, options ...Option) *Page {
	p := &Page{
		locale:     render.DefaultLocale,
		formAction: DefaultFormAction,
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}

	notify := form.NotifierFunc(p.recordNotice)
	p.list = listing.New(remote,
		listing.WithNotifier(notify),
		listing.WithTranslator(p.translator, p.locale),
		listing.WithLogger(p.logger),
	)
	p.form = form.New(remote,
		form.WithNotifier(notify),
		form.WithRefresher(p.list),
		form.WithTranslator(p.translator, p.locale),
		form.WithLogger(p.logger),
	)
	return p
}

// Form exposes the controller.
func (p *Page) Form() *form.Controller {
	return p.form
}

// List exposes the record list.
func (p *Page) List() *listing.List {
	return p.list
}

// Locale reports the resolved locale.
func (p *Page) Locale() string {
	return p.locale
}

// Load fetches the list, as on first display.
func (p *Page) Load(ctx context.Context) error {
	p.notice = ""
	return p.list.Refresh(ctx)
}

// Restore rebuilds the edit state carried by a stateless front-end.
func (p *Page) Restore(state form.EditState, values book.Values) {
	p.form.Restore(state, values)
}

// Submit validates and creates or updates.
func (p *Page) Submit(ctx context.Context, values book.Values) error {
	p.notice = ""
	return p.form.Submit(ctx, values)
}

// EnterEditMode loads id into the form. Notices already raised by the same
// request, such as a failed list load, are kept.
func (p *Page) EnterEditMode(ctx context.Context, id book.ID) error {
	return p.form.EnterEditMode(ctx, id)
}

// Cancel returns the form to Idle.
func (p *Page) Cancel() {
	p.form.Cancel()
}

// Delete asks confirm, deletes and refreshes.
func (p *Page) Delete(ctx context.Context, id book.ID, confirm listing.Confirmer) (bool, error) {
	p.notice = ""
	return p.list.Delete(ctx, id, confirm)
}

// DeleteConfirmed deletes without asking; the caller already has consent.
func (p *Page) DeleteConfirmed(ctx context.Context, id book.ID) (bool, error) {
	p.notice = ""
	return p.list.DeleteConfirmed(ctx, id)
}

// Records returns the rows currently displayed, as records.
func (p *Page) Records() []book.Record {
	return p.list.Records()
}

// Notice returns the blocking messages raised since the last user action,
// one per line, or an empty string.
func (p *Page) Notice() string {
	return p.notice
}

// ClearNotice drops the pending notice once a front-end has shown it.
func (p *Page) ClearNotice() {
	p.notice = ""
}

// View builds the immutable snapshot renderers consume.
func (p *Page) View() render.PageView {
	fv := p.form.View()

	fields := make([]render.FieldView, 0, len(book.Fields))
	for _, f := range book.Fields {
		fields = append(fields, render.FieldView{
			ID:       f.ID,
			Name:     f.ID,
			Label:    p.tr(render.FieldLabelKey(f.ID), f.Label),
			Kind:     string(f.Kind),
			Value:    fv.Values.Get(f.ID),
			Required: f.Required,
			Invalid:  fv.InvalidField == f.ID,
		})
	}

	rows := p.list.Rows()
	rowViews := make([]render.RowView, 0, len(rows))
	for _, row := range rows {
		rowViews = append(rowViews, render.RowView{
			ID:          row.ID.String(),
			Title:       row.Title,
			Author:      row.Author,
			ISBN:        row.ISBN,
			Price:       row.Price,
			PublishDate: row.PublishDate,
			Publisher:   row.Publisher,
			Description: row.Description,
		})
	}

	return render.PageView{
		Locale: p.locale,
		Title:  p.tr(render.KeyPageTitle, "도서 관리"),
		Form: render.FormView{
			Action:        p.formAction,
			Fields:        fields,
			Hidden:        []render.HiddenField{render.EditingHidden(fv.State.Token())},
			Editing:       fv.State.IsEditing(),
			EditingID:     fv.State.Token(),
			SubmitLabel:   fv.SubmitLabel,
			CancelLabel:   p.tr(render.KeyCancel, "취소"),
			CancelVisible: fv.CancelVisible,
			Error:         fv.Error,
			ErrorVisible:  fv.ErrorVisible,
		},
		List: render.ListView{
			Columns:     render.ListColumns(p.translator, nil, p.locale),
			Rows:        rowViews,
			Empty:       p.tr(render.KeyListEmpty, "등록된 도서가 없습니다."),
			EditLabel:   p.tr(render.KeyEdit, "수정"),
			DeleteLabel: p.tr(render.KeyDelete, "삭제"),
		},
		Notice: p.notice,
		Theme:  p.theme,
	}
}

// ConfirmView builds the delete confirmation for a displayed record.
func (p *Page) ConfirmView(id book.ID) (render.ConfirmView, bool) {
	rec, ok := p.list.Find(id)
	if !ok {
		return render.ConfirmView{}, false
	}
	row := p.list.Row(rec)
	return render.ConfirmView{
		Locale:   p.locale,
		Title:    p.tr(render.KeyPageTitle, "도서 관리"),
		Question: p.list.ConfirmQuestion(),
		Row: render.RowView{
			ID:          row.ID.String(),
			Title:       row.Title,
			Author:      row.Author,
			ISBN:        row.ISBN,
			Price:       row.Price,
			PublishDate: row.PublishDate,
			Publisher:   row.Publisher,
		},
		Yes:   p.tr(render.KeyConfirmYes, "삭제"),
		No:    p.tr(render.KeyConfirmNo, "취소"),
		Theme: p.theme,
	}, true
}

func (p *Page) recordNotice(ctx context.Context, message string) {
	p.notice = JoinNotices(p.notice, message)
	if p.notifier != nil {
		p.notifier.Notify(ctx, message)
	}
}

// JoinNotices appends newer to older on its own line, skipping empties and
// repeats.
func JoinNotices(older, newer string) string {
	switch {
	case older == "":
		return newer
	case newer == "" || older == newer:
		return older
	}
	return older + "\n" + newer
}

func (p *Page) tr(key, fallback string) string {
	return render.Translate(p.translator, nil, p.locale, key, fallback)
}
