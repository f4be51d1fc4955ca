package web_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-bookform/internal/fakeapi"
	"github.com/goliatone/go-bookform/internal/web"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/render"
	vanilla "github.com/goliatone/go-bookform/pkg/renderers/vanilla"
	"github.com/goliatone/go-bookform/pkg/testsupport"
)

type harness struct {
	backend *testsupport.Backend
	handler http.Handler
	cookies []*http.Cookie
}

func newHarness(t *testing.T, options ...web.Option) *harness {
	t.Helper()

	backend := testsupport.NewBackend(t)
	renderer, err := vanilla.New()
	require.NoError(t, err)

	opts := append([]web.Option{web.WithAssets(http.FS(vanilla.AssetsFS()))}, options...)
	srv, err := web.New(backend.Client, renderer, opts...)
	require.NoError(t, err)
	return &harness{backend: backend, handler: srv.Handler()}
}

func (h *harness) do(t *testing.T, method, target string, form url.Values) (*http.Response, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range h.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	res := rec.Result()
	h.cookies = nil
	for _, c := range res.Cookies() {
		if c.MaxAge >= 0 {
			h.cookies = append(h.cookies, c)
		}
	}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}

func bookForm(title string) url.Values {
	return url.Values{
		"title":       {title},
		"author":      {"김작가"},
		"isbn":        {"978-89"},
		"price":       {"15000"},
		"publishDate": {"2024-05-07"},
		"publisher":   {"한빛"},
	}
}

func TestCreateEditUpdateDeleteRoundTrip(t *testing.T) {
	h := newHarness(t)

	res, _ := h.do(t, http.MethodPost, "/books", bookForm("첫 책"))
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))
	require.Len(t, h.backend.Server.Records(), 1)

	res, body := h.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "첫 책")
	assert.Contains(t, body, "15,000")
	assert.Contains(t, body, `href="/books/1/edit"`)
	assert.Contains(t, body, ">도서 등록</button>")

	res, body = h.do(t, http.MethodGet, "/books/1/edit", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `name="_editing" value="1"`)
	assert.Contains(t, body, ">도서 수정</button>")
	assert.Contains(t, body, `id="cancelBtn"`)
	assert.Contains(t, body, `value="첫 책"`)

	update := bookForm("고친 책")
	update.Set("_editing", "1")
	res, _ = h.do(t, http.MethodPost, "/books", update)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	records := h.backend.Server.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "고친 책", records[0].Title)
	assert.Equal(t, 1, h.backend.Server.Calls("create"))
	assert.Equal(t, 1, h.backend.Server.Calls("update"))

	res, body = h.do(t, http.MethodGet, "/books/1/delete", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "정말 삭제하시겠습니까?")
	assert.Contains(t, body, `action="/books/1/delete"`)

	res, _ = h.do(t, http.MethodPost, "/books/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Empty(t, h.backend.Server.Records())

	_, body = h.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, body, "등록된 도서가 없습니다.")
}

func TestSubmitValidationFailureRendersInlineError(t *testing.T) {
	h := newHarness(t)

	res, body := h.do(t, http.MethodPost, "/books", bookForm("  "))
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "제목은 필수입니다.")
	assert.Contains(t, body, `value="김작가"`)
	assert.NotContains(t, body, `role="alert" hidden`)
	assert.Equal(t, 0, h.backend.Server.Calls("create"))
}

func TestSubmitRemoteFailureKeepsEditState(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Seed(testsupport.SamplePayload("원본"))
	h.backend.Server.FailNext("update", fakeapi.Failure{Status: http.StatusInternalServerError})

	update := bookForm("실패할 수정")
	update.Set("_editing", "1")
	res, body := h.do(t, http.MethodPost, "/books", update)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "수정 실패 (500)")
	assert.Contains(t, body, `name="_editing" value="1"`)
	assert.Equal(t, "원본", h.backend.Server.Records()[0].Title)
}

func TestMalformedEditTokenFallsBackToCreate(t *testing.T) {
	h := newHarness(t)

	create := bookForm("새 책")
	create.Set("_editing", "not-a-number")
	res, _ := h.do(t, http.MethodPost, "/books", create)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, 1, h.backend.Server.Calls("create"))
}

func TestEditFailureShowsNotice(t *testing.T) {
	h := newHarness(t)

	res, body := h.do(t, http.MethodGet, "/books/42/edit", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "수정 모드 진입 실패: 도서를 찾을 수 없습니다.")
	assert.Contains(t, body, ">도서 등록</button>")
}

func TestDeleteFailureFlashesNotice(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Seed(testsupport.SamplePayload("남을 책"))
	h.backend.Server.FailNext("delete", fakeapi.Failure{Status: http.StatusInternalServerError})

	res, _ := h.do(t, http.MethodPost, "/books/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	require.NotEmpty(t, h.cookies)

	_, body := h.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, body, "삭제 실패 (500)")
	assert.Contains(t, body, "남을 책")

	_, body = h.do(t, http.MethodGet, "/", nil)
	assert.NotContains(t, body, "삭제 실패 (500)")
}

func TestEditPageReportsListFailure(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Seed(testsupport.SamplePayload("첫 책"))
	h.backend.Server.FailNext("list", fakeapi.Failure{Status: http.StatusInternalServerError})

	res, body := h.do(t, http.MethodGet, "/books/1/edit", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `name="_editing" value="1"`)
	assert.Contains(t, body, "도서 목록을 불러오지 못했습니다.")
}

func TestFlashIsConsumedAlongsidePageNotice(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Seed(testsupport.SamplePayload("남을 책"))
	h.backend.Server.FailNext("delete", fakeapi.Failure{Status: http.StatusInternalServerError})

	_, _ = h.do(t, http.MethodPost, "/books/1/delete", url.Values{})
	require.NotEmpty(t, h.cookies)

	h.backend.Server.FailNext("list", fakeapi.Failure{Status: http.StatusBadGateway})
	res, body := h.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, body, "삭제 실패 (500)")
	assert.Contains(t, body, "도서 목록을 불러오지 못했습니다.")

	var expired bool
	for _, c := range res.Cookies() {
		if c.Name == "bookform_notice" && c.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "flash cookie must be expired once shown")
}

func TestListFailureShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.FailNext("list", fakeapi.Failure{Status: http.StatusBadGateway})

	_, body := h.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, body, "도서 목록을 불러오지 못했습니다.")
}

func TestRecordTextIsEscaped(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Seed(book.Payload{Title: "<script>alert(1)</script>", Author: "a", ISBN: "i", Price: 1})

	_, body := h.do(t, http.MethodGet, "/", nil)
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestConfirmUnknownRecord(t *testing.T) {
	h := newHarness(t)

	res, _ := h.do(t, http.MethodGet, "/books/9/delete", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = h.do(t, http.MethodGet, "/books/abc/edit", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCancelRedirectsHome(t *testing.T) {
	h := newHarness(t)

	res, _ := h.do(t, http.MethodPost, "/cancel", url.Values{"_editing": {"3"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))
	assert.Zero(t, h.backend.Server.Calls("list"))
	assert.Zero(t, h.backend.Server.Calls("get"))
}

func TestHealthMetricsAndAssets(t *testing.T) {
	h := newHarness(t)

	res, body := h.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body)

	res, body = h.do(t, http.MethodGet, "/assets/bookform.css", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "--color-bg")

	res, _ = h.do(t, http.MethodGet, "/assets/themes/paper/paper.css", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, body = h.do(t, http.MethodGet, "/metrics", nil)
	assert.Contains(t, body, `bookform_http_requests_total{route="healthz",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, web.WithRateLimit(0.001, 1))

	res, _ := h.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = h.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestEnglishPages(t *testing.T) {
	h := newHarness(t, web.WithTranslator(render.DefaultCatalog(), "en"))

	_, body := h.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, ">Add book</button>")
	assert.Contains(t, body, "No books yet.")
}

type panicRenderer struct{}

func (panicRenderer) Name() string        { return "panic" }
func (panicRenderer) ContentType() string { return "text/plain" }
func (panicRenderer) Render(context.Context, render.PageView, render.RenderOptions) ([]byte, error) {
	panic("boom")
}
func (panicRenderer) RenderConfirm(context.Context, render.ConfirmView, render.RenderOptions) ([]byte, error) {
	return nil, errors.New("unused")
}

func TestRecoverPanic(t *testing.T) {
	backend := testsupport.NewBackend(t)
	srv, err := web.New(backend.Client, panicRenderer{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := web.New(nil, panicRenderer{})
	assert.Error(t, err)
}
