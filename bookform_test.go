package bookform_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookform "github.com/goliatone/go-bookform"
	"github.com/goliatone/go-bookform/internal/fakeapi"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/form"
	"github.com/goliatone/go-bookform/pkg/listing"
	"github.com/goliatone/go-bookform/pkg/render"
	"github.com/goliatone/go-bookform/pkg/testsupport"
)

func validValues(title string) book.Values {
	values := book.EmptyValues()
	values["title"] = title
	values["author"] = "김작가"
	values["isbn"] = "978-89"
	values["price"] = "15000"
	return values
}

func TestPageLoadBuildsIdleView(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Server.Seed(testsupport.SamplePayload("클린 코드"))

	page := bookform.NewPage(backend.Client)
	require.NoError(t, page.Load(context.Background()))

	view := page.View()
	assert.Equal(t, "ko", view.Locale)
	assert.Equal(t, "도서 관리", view.Title)
	assert.Equal(t, bookform.DefaultFormAction, view.Form.Action)
	assert.False(t, view.Form.Editing)
	assert.Equal(t, "도서 등록", view.Form.SubmitLabel)
	assert.False(t, view.Form.CancelVisible)
	assert.False(t, view.Form.ErrorVisible)
	assert.Equal(t, []render.HiddenField{{Name: render.EditingField, Value: ""}}, view.Form.Hidden)
	require.Len(t, view.Form.Fields, len(book.Fields))
	assert.Equal(t, "제목", view.Form.Fields[0].Label)

	require.Len(t, view.List.Rows, 1)
	row := view.List.Rows[0]
	assert.Equal(t, "1", row.ID)
	assert.Equal(t, "15,000", row.Price)
	assert.Equal(t, "한빛미디어", row.Publisher)
	assert.Equal(t, "수정", view.List.EditLabel)
}

func TestPageSubmitValidationMarksField(t *testing.T) {
	backend := testsupport.NewBackend(t)
	page := bookform.NewPage(backend.Client)

	values := validValues("")
	require.Error(t, page.Submit(context.Background(), values))

	view := page.View()
	assert.True(t, view.Form.ErrorVisible)
	assert.Equal(t, "제목은 필수입니다.", view.Form.Error)
	assert.True(t, view.Form.Fields[0].Invalid)
	assert.False(t, view.Form.Fields[1].Invalid)
	assert.Equal(t, 0, backend.Server.Calls("create"))
}

func TestPageEditUpdateCycleRefreshesList(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Server.Seed(testsupport.SamplePayload("초판"))
	ctx := context.Background()

	page := bookform.NewPage(backend.Client)
	require.NoError(t, page.Load(ctx))
	require.NoError(t, page.EnterEditMode(ctx, 1))

	view := page.View()
	assert.True(t, view.Form.Editing)
	assert.Equal(t, "1", view.Form.EditingID)
	assert.Equal(t, "도서 수정", view.Form.SubmitLabel)
	assert.True(t, view.Form.CancelVisible)
	assert.Equal(t, []render.HiddenField{{Name: render.EditingField, Value: "1"}}, view.Form.Hidden)

	values := page.Form().Values()
	values["title"] = "개정판"
	require.NoError(t, page.Submit(ctx, values))

	view = page.View()
	assert.False(t, view.Form.Editing)
	require.Len(t, view.List.Rows, 1)
	assert.Equal(t, "개정판", view.List.Rows[0].Title)
}

func TestPageRestoreFromToken(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Server.Seed(testsupport.SamplePayload("초판"))
	ctx := context.Background()

	state, err := form.ParseToken("1")
	require.NoError(t, err)

	page := bookform.NewPage(backend.Client)
	page.Restore(state, validValues("복원"))
	require.NoError(t, page.Submit(ctx, page.Form().Values()))

	records := backend.Server.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "복원", records[0].Title)
	assert.Equal(t, 0, backend.Server.Calls("create"))
}

func TestPageNoticeCollectsBlockingMessages(t *testing.T) {
	backend := testsupport.NewBackend(t)
	ctx := context.Background()

	var forwarded []string
	page := bookform.NewPage(backend.Client, bookform.WithNotifier(form.NotifierFunc(func(_ context.Context, msg string) {
		forwarded = append(forwarded, msg)
	})))

	backend.Server.FailNext("list", fakeapi.Failure{Status: 500})
	require.Error(t, page.Load(ctx))
	assert.Equal(t, "도서 목록을 불러오지 못했습니다.", page.Notice())

	require.Error(t, page.EnterEditMode(ctx, 99))
	want := "도서 목록을 불러오지 못했습니다.\n수정 모드 진입 실패: 도서를 찾을 수 없습니다."
	assert.Equal(t, want, page.Notice())
	assert.Equal(t, want, page.View().Notice)

	require.NoError(t, page.Load(ctx))
	assert.Empty(t, page.Notice())
	assert.Len(t, forwarded, 2)
}

func TestPageEnterEditModeKeepsListNotice(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Server.Seed(testsupport.SamplePayload("초판"))
	ctx := context.Background()
	page := bookform.NewPage(backend.Client)

	backend.Server.FailNext("list", fakeapi.Failure{Status: 500})
	require.Error(t, page.Load(ctx))
	require.NoError(t, page.EnterEditMode(ctx, 1))

	assert.True(t, page.Form().State().IsEditing())
	assert.Equal(t, "도서 목록을 불러오지 못했습니다.", page.Notice())

	page.ClearNotice()
	assert.Empty(t, page.View().Notice)
}

func TestJoinNotices(t *testing.T) {
	assert.Equal(t, "a", bookform.JoinNotices("", "a"))
	assert.Equal(t, "a", bookform.JoinNotices("a", ""))
	assert.Equal(t, "a", bookform.JoinNotices("a", "a"))
	assert.Equal(t, "a\nb", bookform.JoinNotices("a", "b"))
}

func TestPageDeleteAsksThenRefreshes(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Server.Seed(testsupport.SamplePayload("하나"), testsupport.SamplePayload("둘"))
	ctx := context.Background()

	page := bookform.NewPage(backend.Client)
	require.NoError(t, page.Load(ctx))

	var asked string
	deleted, err := page.Delete(ctx, 1, listing.ConfirmFunc(func(_ context.Context, q string) bool {
		asked = q
		return false
	}))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "정말 삭제하시겠습니까?", asked)
	assert.Len(t, page.Records(), 2)

	deleted, err = page.DeleteConfirmed(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)
	require.Len(t, page.Records(), 1)
	assert.Equal(t, "둘", page.Records()[0].Title)
}

func TestPageConfirmView(t *testing.T) {
	backend := testsupport.NewBackend(t)
	backend.Server.Seed(testsupport.SamplePayload("확인"))
	ctx := context.Background()

	page := bookform.NewPage(backend.Client)
	require.NoError(t, page.Load(ctx))

	confirm, ok := page.ConfirmView(1)
	require.True(t, ok)
	assert.Equal(t, "정말 삭제하시겠습니까?", confirm.Question)
	assert.Equal(t, "확인", confirm.Row.Title)
	assert.Equal(t, "1", confirm.Row.ID)

	_, ok = page.ConfirmView(2)
	assert.False(t, ok)
}

func TestPageEnglishTranslation(t *testing.T) {
	backend := testsupport.NewBackend(t)
	page := bookform.NewPage(backend.Client, bookform.WithTranslator(render.DefaultCatalog(), "en-US"))

	view := page.View()
	assert.Equal(t, "en-US", view.Locale)
	assert.Equal(t, "Add book", view.Form.SubmitLabel)
	assert.Equal(t, "Title", view.Form.Fields[0].Label)
	assert.Equal(t, "No books yet.", view.List.Empty)
}

func TestEmbeddedFilesystems(t *testing.T) {
	_, err := fs.Stat(bookform.EmbeddedTemplates(), "page.html")
	require.NoError(t, err)

	_, err = fs.Stat(bookform.AssetsFS(), "bookform.css")
	require.NoError(t, err)
}
