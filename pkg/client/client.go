// Package client wraps the books REST collection: one request/response
// exchange per call, no retries and no caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookform/internal/logging"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/contract"
)

const maxFailureBody = 64 << 10

// Client talks to one books collection rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
	contract   *contract.Validator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport. The default client has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// WithLogger routes exchange logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// WithContract checks outgoing payloads, and fetched records, against the
// books contract. A payload violation is reported without contacting the
// backend.
func WithContract(v *contract.Validator) Option {
	return func(c *Client) {
		c.contract = v
	}
}

// New constructs a client for the collection at baseURL (for example
// "http://localhost:8080/api/books").
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// BaseURL reports the collection root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns every record in server order.
func (c *Client) List(ctx context.Context) ([]book.Record, error) {
	var records []book.Record
	if err := c.do(ctx, OpList, http.MethodGet, "", nil, &records, http.StatusOK); err != nil {
		return nil, err
	}
	if records == nil {
		records = []book.Record{}
	}
	return records, nil
}

// Create posts a new record and returns what the backend stored.
func (c *Client) Create(ctx context.Context, payload book.Payload) (book.Record, error) {
	if err := c.checkPayload(payload); err != nil {
		return book.Record{}, err
	}
	var created book.Record
	if err := c.do(ctx, OpCreate, http.MethodPost, "", payload, &created, http.StatusOK, http.StatusCreated); err != nil {
		return book.Record{}, err
	}
	return created, nil
}

// FetchOne reads a single record.
func (c *Client) FetchOne(ctx context.Context, id book.ID) (book.Record, error) {
	var rec book.Record
	if err := c.do(ctx, OpFetchOne, http.MethodGet, id.String(), nil, &rec, http.StatusOK); err != nil {
		return book.Record{}, err
	}
	if c.contract != nil {
		if err := c.contract.ValidateRecord(rec); err != nil {
			return book.Record{}, &TransportError{Op: OpFetchOne, Err: err}
		}
	}
	return rec, nil
}

// Update replaces the record addressed by id.
func (c *Client) Update(ctx context.Context, id book.ID, payload book.Payload) error {
	if err := c.checkPayload(payload); err != nil {
		return err
	}
	return c.do(ctx, OpUpdate, http.MethodPut, id.String(), payload, nil, http.StatusOK, http.StatusNoContent)
}

// Delete removes the record addressed by id.
func (c *Client) Delete(ctx context.Context, id book.ID) error {
	return c.do(ctx, OpDelete, http.MethodDelete, id.String(), nil, nil, http.StatusOK, http.StatusNoContent)
}

func (c *Client) checkPayload(payload book.Payload) error {
	if c.contract == nil {
		return nil
	}
	return c.contract.ValidatePayload(payload)
}

func (c *Client) endpoint(segment string) string {
	if segment == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + url.PathEscape(segment)
}

func (c *Client) do(ctx context.Context, op Op, method, segment string, body, out any, accept ...int) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(raw)
	}

	target := c.endpoint(segment)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", c.fields(op, method, target, 0, start, zap.Error(err))...)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !statusIn(resp.StatusCode, accept) {
		remote := &RemoteError{
			Op:            op,
			StatusCode:    resp.StatusCode,
			ServerMessage: failureMessage(resp.Body),
		}
		c.logger.Warn("request rejected", c.fields(op, method, target, resp.StatusCode, start, zap.String("message", remote.Message()))...)
		return remote
	}

	c.logger.Debug("request completed", c.fields(op, method, target, resp.StatusCode, start)...)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) && op == OpCreate {
			return nil
		}
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) fields(op Op, method, target string, status int, start time.Time, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("op", string(op)),
		zap.String("method", method),
		zap.String("url", target),
		zap.Duration("duration", time.Since(start)),
	}
	if status > 0 {
		fields = append(fields, zap.Int("status", status))
	}
	return append(fields, extra...)
}

func statusIn(status int, accept []int) bool {
	for _, code := range accept {
		if status == code {
			return true
		}
	}
	return false
}

func failureMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxFailureBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
