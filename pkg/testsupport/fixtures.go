// Package testsupport collects helpers shared by package tests: a running
// in-memory backend with a client pointed at it, and sample records.
package testsupport

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-bookform/internal/fakeapi"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/client"
)

// Backend couples an in-memory books server with a client for it.
type Backend struct {
	Server *fakeapi.Server
	HTTP   *httptest.Server
	Client *client.Client
}

// NewBackend starts a backend for the duration of the test.
func NewBackend(t *testing.T, options ...fakeapi.Option) *Backend {
	t.Helper()

	server := fakeapi.New(options...)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	c, err := client.New(httpServer.URL + server.BasePath())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return &Backend{Server: server, HTTP: httpServer, Client: c}
}

// BaseURL is the collection root clients should use.
func (b *Backend) BaseURL() string {
	return b.HTTP.URL + b.Server.BasePath()
}

// SamplePayload returns a valid payload with every detail field set.
func SamplePayload(title string) book.Payload {
	date := "2024-03-01"
	pages := 320
	return book.Payload{
		Title:       title,
		Author:      "김작가",
		ISBN:        "978-89-0000-000-0",
		Price:       15000,
		PublishDate: &date,
		Detail: &book.Detail{
			Publisher:   "한빛미디어",
			Language:    "ko",
			Edition:     "2",
			PageCount:   &pages,
			Description: "입문서",
		},
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
