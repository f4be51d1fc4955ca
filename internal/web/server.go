// Package web serves the book page as server-rendered HTML. It keeps no state
// between requests: the edit state rides in the form's hidden _editing field
// and each request builds its own page.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bookform "github.com/goliatone/go-bookform"
	"github.com/goliatone/go-bookform/internal/logging"
	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/form"
	"github.com/goliatone/go-bookform/pkg/render"
)

// PageRenderer renders both the page and the delete confirmation.
type PageRenderer interface {
	render.Renderer
	render.ConfirmRenderer
}

// Server wires routes to a books backend and an HTML renderer.
type Server struct {
	remote     bookform.Remote
	renderer   PageRenderer
	translator render.Translator
	locale     string
	theme      *render.ThemeView
	logger     *zap.Logger
	assets     http.FileSystem

	rateLimit float64
	burst     int

	registry *prometheus.Registry
	metrics  *metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger routes access and page logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(l)
	}
}

// WithTranslator localises pages for locale.
func WithTranslator(t render.Translator, locale string) Option {
	return func(s *Server) {
		s.translator = t
		s.locale = render.ResolveLocale(locale)
	}
}

// WithTheme attaches a resolved theme to every page.
func WithTheme(view *render.ThemeView) Option {
	return func(s *Server) {
		s.theme = view
	}
}

// WithRateLimit allows rps requests per second per client address with the
// given burst. A zero rate disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rateLimit = rps
		s.burst = burst
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files http.FileSystem) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithRegistry collects metrics in reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// New constructs a server.
func New(remote bookform.Remote, renderer PageRenderer, options ...Option) (*Server, error) {
	if remote == nil {
		return nil, errors.New("web: remote is required")
	}
	if renderer == nil {
		return nil, errors.New("web: renderer is required")
	}

	s := &Server{
		remote:   remote,
		renderer: renderer,
		locale:   render.DefaultLocale,
		logger:   zap.NewNop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	m, err := newMetrics(s.registry)
	if err != nil {
		return nil, err
	}
	s.metrics = m
	return s, nil
}

// Handler returns the routed handler wrapped in recovery, access logging and
// rate limiting, outermost first.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/", s.instrument("index", s.index))
	router.POST("/books", s.instrument("submit", s.submit))
	router.GET("/books/:id/edit", s.instrument("edit", s.edit))
	router.GET("/books/:id/delete", s.instrument("delete_confirm", s.confirmDelete))
	router.POST("/books/:id/delete", s.instrument("delete", s.delete))
	router.POST("/cancel", s.instrument("cancel", s.cancel))
	router.GET("/healthz", s.instrument("healthz", healthz))
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	if s.assets != nil {
		router.ServeFiles("/assets/*filepath", s.assets)
	}

	var handler http.Handler = router
	if s.rateLimit > 0 {
		handler = newRateLimiter(s.rateLimit, s.burst).middleware(handler)
	}
	handler = s.accessLog(handler)
	return s.recoverPanic(handler)
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

func (s *Server) newPage() *bookform.Page {
	return bookform.NewPage(s.remote,
		bookform.WithTranslator(s.translator, s.locale),
		bookform.WithLogger(s.logger),
		bookform.WithTheme(s.theme),
	)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page := s.newPage()
	_ = page.Load(r.Context())
	s.writePage(w, r, page, http.StatusOK)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := book.ParseID(ps.ByName("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := s.newPage()
	ctx := r.Context()
	_ = page.Load(ctx)
	_ = page.EnterEditMode(ctx, id)
	s.writePage(w, r, page, http.StatusOK)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	values := book.EmptyValues()
	for _, field := range book.Fields {
		values[field.ID] = r.PostForm.Get(field.ID)
	}
	state, err := form.ParseToken(r.PostForm.Get(render.EditingField))
	if err != nil {
		s.logger.Warn("ignoring malformed edit token", zap.String("token", r.PostForm.Get(render.EditingField)))
		state = form.Idle()
	}

	page := s.newPage()
	page.Restore(state, values)
	ctx := r.Context()
	if err := page.Submit(ctx, values); err != nil {
		_ = page.Load(ctx)
		s.writePage(w, r, page, http.StatusUnprocessableEntity)
		return
	}
	if notice := page.Notice(); notice != "" {
		setFlash(w, notice)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// cancel only redirects: the edit state lives in the submitted form, so
// dropping it is enough to return to Idle.
func (s *Server) cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := book.ParseID(ps.ByName("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := s.newPage()
	if err := page.Load(r.Context()); err != nil {
		setFlash(w, page.Notice())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view, ok := page.ConfirmView(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	out, err := s.renderer.RenderConfirm(r.Context(), view, render.RenderOptions{})
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	s.write(w, out, http.StatusOK)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := book.ParseID(ps.ByName("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page := s.newPage()
	_, _ = page.DeleteConfirmed(r.Context(), id)
	if notice := page.Notice(); notice != "" {
		setFlash(w, notice)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, page *bookform.Page, status int) {
	view := page.View()
	view.Notice = bookform.JoinNotices(takeFlash(w, r), view.Notice)
	out, err := s.renderer.Render(r.Context(), view, render.RenderOptions{})
	if err != nil {
		s.renderFailed(w, err)
		return
	}
	s.write(w, out, status)
}

func (s *Server) write(w http.ResponseWriter, out []byte, status int) {
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) renderFailed(w http.ResponseWriter, err error) {
	s.logger.Error("render failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
