// Package bootstrap turns a resolved configuration into the collaborators
// both front-ends share: logger, books client, translations and theme.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookform/internal/config"
	"github.com/goliatone/go-bookform/internal/fakeapi"
	"github.com/goliatone/go-bookform/internal/logging"
	"github.com/goliatone/go-bookform/pkg/client"
	"github.com/goliatone/go-bookform/pkg/contract"
	"github.com/goliatone/go-bookform/pkg/render"
	"github.com/goliatone/go-bookform/pkg/themes"
)

// Runtime holds the shared collaborators. Close releases them.
type Runtime struct {
	Config     config.Config
	Logger     *zap.Logger
	Client     *client.Client
	Translator *render.Catalog
	Theme      *render.ThemeView

	closers []func() error
}

// Build wires a runtime. Logs go to logOut; nil discards them.
func Build(ctx context.Context, cfg config.Config, logOut io.Writer) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = io.Discard
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOut,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Translator: render.DefaultCatalog(),
	}

	var validator *contract.Validator
	if cfg.API.Contract {
		validator, err = contract.Load(ctx)
		if err != nil {
			return nil, err
		}
	}

	baseURL := cfg.API.BaseURL
	if cfg.Dev.FakeAPI {
		baseURL, err = rt.startFakeAPI(validator)
		if err != nil {
			return nil, err
		}
	}

	rt.Client, err = client.New(baseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		client.WithUserAgent(cfg.API.UserAgent),
		client.WithLogger(logger),
		client.WithContract(validator),
	)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	catalog, err := themes.Builtin(cfg.UI.Theme, cfg.UI.Variant)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Theme, err = catalog.Resolve(cfg.UI.Theme, cfg.UI.Variant)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("bootstrap: theme: %w", err)
	}

	logger.Debug("runtime ready",
		zap.String("api", baseURL),
		zap.String("locale", cfg.UI.Locale),
		zap.String("theme", rt.Theme.Name),
		zap.Bool("fake_api", cfg.Dev.FakeAPI),
	)
	return rt, nil
}

// Close stops background servers and flushes the logger.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}
	return errors.Join(errs...)
}

func (r *Runtime) startFakeAPI(validator *contract.Validator) (string, error) {
	backend := fakeapi.New(fakeapi.WithContract(validator))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("bootstrap: fake api listen: %w", err)
	}
	srv := &http.Server{Handler: backend.Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.Logger.Error("fake api stopped", zap.Error(err))
		}
	}()
	r.closers = append(r.closers, srv.Close)

	baseURL := "http://" + ln.Addr().String() + backend.BasePath()
	r.Logger.Info("serving in-memory books api", zap.String("url", baseURL))
	return baseURL, nil
}
