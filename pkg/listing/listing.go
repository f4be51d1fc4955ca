// Package listing keeps the last successfully fetched record list and projects
// it into display rows. A failed fetch never clears what is already shown.
package listing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/goliatone/go-bookform/internal/logging"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/client"
	"github.com/goliatone/go-bookform/pkg/form"
	"github.com/goliatone/go-bookform/pkg/render"
)

// DefaultPriceLocale formats prices when no locale is configured.
const DefaultPriceLocale = "ko-KR"

// Remote is the part of the record client the list drives.
type Remote interface {
	List(ctx context.Context) ([]book.Record, error)
	Delete(ctx context.Context, id book.ID) error
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) bool {
	return f(ctx, question)
}

// Row is one record as displayed, in server order. ID addresses both the
// edit and the delete control.
type Row struct {
	ID          book.ID
	Title       string
	Author      string
	ISBN        string
	Price       string
	PublishDate string
	Publisher   string
	Description string
}

// List holds the most recent successful fetch.
type List struct {
	remote     Remote
	notifier   form.Notifier
	translator render.Translator
	locale     string
	printer    *message.Printer
	logger     *zap.Logger

	records []book.Record
	loaded  bool
}

// Option configures a List.
type Option func(*List)

// WithNotifier routes list and delete failures to n.
func WithNotifier(n form.Notifier) Option {
	return func(l *List) {
		l.notifier = n
	}
}

// WithTranslator localises messages for locale and formats prices with the
// same locale.
func WithTranslator(t render.Translator, locale string) Option {
	return func(l *List) {
		l.translator = t
		l.locale = render.ResolveLocale(locale)
		l.printer = newPrinter(locale)
	}
}

// WithPriceLocale overrides only the locale used for number formatting.
func WithPriceLocale(locale string) Option {
	return func(l *List) {
		l.printer = newPrinter(locale)
	}
}

// WithLogger sets the logger used for list events.
func WithLogger(logger *zap.Logger) Option {
	return func(l *List) {
		l.logger = logging.OrNop(logger)
	}
}

// New constructs an empty list.
func New(remote Remote, options ...Option) *List {
	l := &List{
		remote:  remote,
		locale:  render.DefaultLocale,
		printer: newPrinter(DefaultPriceLocale),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Refresh fetches the records. On failure the previous rows stay in place and
// the notifier is told.
func (l *List) Refresh(ctx context.Context) error {
	records, err := l.remote.List(ctx)
	if err != nil {
		l.notify(ctx, l.tr(render.KeyListLoadFailed, "도서 목록을 불러오지 못했습니다."))
		l.logger.Warn("list refresh failed", logging.With(logging.ListBooks, zap.Error(err))...)
		return err
	}
	l.records = append([]book.Record(nil), records...)
	l.loaded = true
	l.logger.Debug("list refreshed", logging.With(logging.ListBooks, zap.Int("count", len(records)))...)
	return nil
}

// Loaded reports whether at least one fetch has succeeded.
func (l *List) Loaded() bool {
	return l.loaded
}

// Records returns a copy of the last fetched records.
func (l *List) Records() []book.Record {
	return append([]book.Record(nil), l.records...)
}

// Find returns the displayed record with id.
func (l *List) Find(id book.ID) (book.Record, bool) {
	for _, rec := range l.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return book.Record{}, false
}

// Rows projects the records for display, one row per record, in server order.
func (l *List) Rows() []Row {
	rows := make([]Row, 0, len(l.records))
	for _, rec := range l.records {
		rows = append(rows, l.Row(rec))
	}
	return rows
}

// Row projects a single record.
func (l *List) Row(rec book.Record) Row {
	row := Row{
		ID:          rec.ID,
		Title:       rec.Title,
		Author:      rec.Author,
		ISBN:        rec.ISBN,
		Price:       l.FormatPrice(rec.Price),
		PublishDate: rec.PublishDateValue(),
		Publisher:   rec.Publisher(),
	}
	if rec.Detail != nil {
		row.Description = rec.Detail.Description
	}
	return row
}

// FormatPrice renders price with locale grouping separators.
func (l *List) FormatPrice(price float64) string {
	return l.printer.Sprint(number.Decimal(price, number.MaxFractionDigits(3)))
}

// ConfirmQuestion is the text shown before deleting.
func (l *List) ConfirmQuestion() string {
	return l.tr(render.KeyDeleteConfirm, "정말 삭제하시겠습니까?")
}

// Delete asks confirm first; a declined prompt does nothing. A confirmed
// delete that succeeds refreshes the list. Failures go to the notifier and
// leave the rows untouched. The boolean reports whether the record was
// deleted.
func (l *List) Delete(ctx context.Context, id book.ID, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ctx, l.ConfirmQuestion()) {
		return false, nil
	}
	return l.DeleteConfirmed(ctx, id)
}

// DeleteConfirmed deletes without asking. Front-ends that collect the
// confirmation on a separate request call it once the user has agreed.
func (l *List) DeleteConfirmed(ctx context.Context, id book.ID) (bool, error) {
	if err := l.remote.Delete(ctx, id); err != nil {
		l.notify(ctx, l.deleteMessage(err))
		l.logger.Warn("delete failed", logging.With(logging.DeleteBook, logging.BookID(id), zap.Error(err))...)
		return false, err
	}
	l.logger.Info("book deleted", logging.With(logging.DeleteBook, logging.BookID(id))...)

	// Refresh reports its own failure.
	_ = l.Refresh(ctx)
	return true, nil
}

func (l *List) deleteMessage(err error) string {
	var transport *client.TransportError
	if errors.As(err, &transport) {
		detail := transport.Err.Error()
		return l.tr(render.KeyDeleteError, "삭제 중 오류: "+detail, detail)
	}
	var remote *client.RemoteError
	if errors.As(err, &remote) {
		if remote.ServerMessage != "" {
			return remote.ServerMessage
		}
		return fmt.Sprintf("%s (%d)", l.tr(render.KeyDeleteFailed, "삭제 실패"), remote.StatusCode)
	}
	return l.tr(render.KeyDeleteFailed, "삭제 실패")
}

func (l *List) notify(ctx context.Context, msg string) {
	if l.notifier != nil {
		l.notifier.Notify(ctx, msg)
	}
}

func (l *List) tr(key, fallback string, args ...any) string {
	return render.Translate(l.translator, nil, l.locale, key, fallback, args...)
}

func newPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultPriceLocale)
	}
	return message.NewPrinter(tag)
}
