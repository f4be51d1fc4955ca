// Package fakeapi is an in-memory books backend speaking the same JSON
// contract as the real service. Tests and local development mount it instead
// of a database-backed server.
package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/julienschmidt/httprouter"

	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/contract"
)

// DefaultBasePath matches the collection root used by the catalog service.
const DefaultBasePath = "/api/books"

// Failure forces the next call of an operation to fail.
type Failure struct {
	Status  int
	Message string
}

// Server stores records in insertion order.
type Server struct {
	mu       sync.Mutex
	basePath string
	nextID   book.ID
	records  []book.Record
	contract *contract.Validator
	failures map[string]Failure
	calls    map[string]int
}

// Option configures a Server.
type Option func(*Server)

// WithBasePath mounts the collection somewhere other than DefaultBasePath.
func WithBasePath(path string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimRight(strings.TrimSpace(path), "/"); trimmed != "" {
			s.basePath = trimmed
		}
	}
}

// WithContract rejects bodies that violate the books contract.
func WithContract(v *contract.Validator) Option {
	return func(s *Server) {
		s.contract = v
	}
}

// New constructs an empty backend.
func New(options ...Option) *Server {
	s := &Server{
		basePath: DefaultBasePath,
		nextID:   1,
		failures: make(map[string]Failure),
		calls:    make(map[string]int),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// BasePath reports where the collection is mounted.
func (s *Server) BasePath() string {
	return s.basePath
}

// Handler returns the routes for the collection.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET(s.basePath, s.list)
	router.POST(s.basePath, s.create)
	router.GET(s.basePath+"/:id", s.get)
	router.PUT(s.basePath+"/:id", s.update)
	router.DELETE(s.basePath+"/:id", s.remove)
	return router
}

// Seed stores payloads as if they had been created, returning the records.
func (s *Server) Seed(payloads ...book.Payload) []book.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]book.Record, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, s.insertLocked(p))
	}
	return out
}

// Records returns a copy of the stored records.
func (s *Server) Records() []book.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]book.Record(nil), s.records...)
}

// FailNext makes the next call of op ("list", "create", "get", "update",
// "delete") answer with f.
func (s *Server) FailNext(op string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = f
}

// Calls reports how many requests op has received.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Server) enter(w http.ResponseWriter, op string) bool {
	s.mu.Lock()
	s.calls[op]++
	f, ok := s.failures[op]
	if ok {
		delete(s.failures, op)
	}
	s.mu.Unlock()

	if !ok {
		return true
	}
	if f.Message == "" {
		w.WriteHeader(f.Status)
		return false
	}
	writeMessage(w, f.Status, f.Message)
	return false
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if !s.enter(w, "list") {
		return
	}
	writeJSON(w, http.StatusOK, s.Records())
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.enter(w, "create") {
		return
	}
	payload, ok := s.decode(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	rec := s.insertLocked(payload)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) get(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if !s.enter(w, "get") {
		return
	}
	id, err := book.ParseID(ps.ByName("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "잘못된 도서 ID입니다.")
		return
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	var rec book.Record
	if idx >= 0 {
		rec = s.records[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "도서를 찾을 수 없습니다.")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !s.enter(w, "update") {
		return
	}
	id, err := book.ParseID(ps.ByName("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "잘못된 도서 ID입니다.")
		return
	}
	payload, ok := s.decode(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx >= 0 {
		s.records[idx] = payload.Record(id)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "도서를 찾을 수 없습니다.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) remove(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if !s.enter(w, "delete") {
		return
	}
	id, err := book.ParseID(ps.ByName("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "잘못된 도서 ID입니다.")
		return
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx >= 0 {
		s.records = append(s.records[:idx], s.records[idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "도서를 찾을 수 없습니다.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (book.Payload, bool) {
	var payload book.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "요청 본문을 읽을 수 없습니다.")
		return book.Payload{}, false
	}
	if err := book.Validate(payload); err != nil {
		var invalid *book.ValidationError
		if errors.As(err, &invalid) {
			writeMessage(w, http.StatusBadRequest, invalid.Message)
			return book.Payload{}, false
		}
	}
	if err := s.contract.ValidatePayload(payload); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return book.Payload{}, false
	}
	return payload, true
}

func (s *Server) insertLocked(p book.Payload) book.Record {
	rec := p.Record(s.nextID)
	s.nextID++
	s.records = append(s.records, rec)
	return rec
}

func (s *Server) indexLocked(id book.ID) int {
	for i, rec := range s.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
