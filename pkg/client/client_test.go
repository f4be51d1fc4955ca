package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-bookform/internal/fakeapi"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/client"
	"github.com/goliatone/go-bookform/pkg/contract"
)

func newBackend(t *testing.T, options ...fakeapi.Option) (*fakeapi.Server, *client.Client) {
	t.Helper()

	backend := fakeapi.New(options...)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL+backend.BasePath()+"/", client.WithUserAgent("bookform-test"))
	require.NoError(t, err)
	return backend, c
}

func samplePayload(title string) book.Payload {
	date := "2024-03-01"
	pages := 320
	return book.Payload{
		Title:       title,
		Author:      "Kim",
		ISBN:        "978-0000000000",
		Price:       15000,
		PublishDate: &date,
		Detail:      &book.Detail{Publisher: "Hanbit", PageCount: &pages},
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := client.New("/api/books")
	require.Error(t, err)
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c, err := client.New("http://localhost:8080/api/books/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/books", c.BaseURL())
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, c := newBackend(t)

	created, err := c.Create(ctx, samplePayload("Go"))
	require.NoError(t, err)
	assert.Equal(t, book.ID(1), created.ID)
	assert.Equal(t, "Hanbit", created.Publisher())

	fetched, err := c.FetchOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	updated := samplePayload("Go, 2nd")
	require.NoError(t, c.Update(ctx, created.ID, updated))

	records, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Go, 2nd", records[0].Title)

	require.NoError(t, c.Delete(ctx, created.ID))
	records, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Empty(t, backend.Records())
}

func TestClientListPreservesServerOrder(t *testing.T) {
	backend, c := newBackend(t)
	backend.Seed(samplePayload("Zeta"), samplePayload("Alpha"), samplePayload("Mu"))

	records, err := c.List(context.Background())
	require.NoError(t, err)

	titles := make([]string, 0, len(records))
	for _, rec := range records {
		titles = append(titles, rec.Title)
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mu"}, titles)
}

func TestClientRemoteErrorCarriesServerMessage(t *testing.T) {
	backend, c := newBackend(t)
	backend.FailNext("create", fakeapi.Failure{Status: http.StatusConflict, Message: "이미 등록된 ISBN입니다."})

	_, err := c.Create(context.Background(), samplePayload("Dup"))
	require.Error(t, err)

	var remote *client.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, client.OpCreate, remote.Op)
	assert.Equal(t, http.StatusConflict, remote.StatusCode)
	assert.Equal(t, "이미 등록된 ISBN입니다.", client.UserMessage(err))
	assert.Equal(t, http.StatusConflict, client.StatusCode(err))
}

func TestClientRemoteErrorFallsBackToGenericMessage(t *testing.T) {
	backend, c := newBackend(t)
	backend.FailNext("create", fakeapi.Failure{Status: http.StatusInternalServerError})

	_, err := c.Create(context.Background(), samplePayload("Boom"))
	require.Error(t, err)
	assert.Equal(t, "등록 실패 (500)", client.UserMessage(err))
}

func TestClientFetchOneMissingRecord(t *testing.T) {
	_, c := newBackend(t)

	_, err := c.FetchOne(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
	assert.Equal(t, "도서를 찾을 수 없습니다.", client.UserMessage(err))
}

func TestClientTransportErrorOnUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := client.New(base + "/api/books")
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)

	var transport *client.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, client.OpList, transport.Op)
	assert.Contains(t, client.UserMessage(err), client.TransportPrefix)
}

func TestClientTransportErrorOnMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "[{")
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	var transport *client.TransportError
	require.True(t, errors.As(err, &transport))
}

func TestClientSendsNullPublishDateAndNoID(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "bookform-test", r.Header.Get("User-Agent"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, client.WithUserAgent("bookform-test"))
	require.NoError(t, err)

	payload := samplePayload("Null date")
	payload.PublishDate = nil
	_, err = c.Create(context.Background(), payload)
	require.NoError(t, err)

	require.Contains(t, captured, "publishDate")
	assert.Nil(t, captured["publishDate"])
	assert.NotContains(t, captured, "id")
	assert.Contains(t, captured, "detail")
}

func TestClientContractViolationSkipsNetwork(t *testing.T) {
	v, err := contract.Load(context.Background())
	require.NoError(t, err)

	backend := fakeapi.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL+backend.BasePath(), client.WithContract(v))
	require.NoError(t, err)

	payload := samplePayload("")
	_, err = c.Create(context.Background(), payload)
	require.Error(t, err)

	var violation *contract.Violation
	require.True(t, errors.As(err, &violation))
	assert.Zero(t, backend.Calls("create"))
}

func TestClientUpdateAcceptsOKAndNoContent(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusNoContent}
	for _, status := range statuses {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/7", r.URL.Path)
				w.WriteHeader(status)
			}))
			t.Cleanup(srv.Close)

			c, err := client.New(srv.URL)
			require.NoError(t, err)
			assert.NoError(t, c.Update(context.Background(), 7, samplePayload("T")))
		})
	}
}
