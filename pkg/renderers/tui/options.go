package tui

import (
	"io"
	"os"

	"github.com/goliatone/go-bookform/pkg/render"
)

// Theme captures the message prefixes the terminal output uses.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme marks errors and leaves info lines bare.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "! "}
}

// Option configures the renderer and the session.
type Option func(*config)

type config struct {
	driver     PromptDriver
	out        io.Writer
	translator render.Translator
	locale     string
	theme      Theme
}

func newConfig(options []Option) config {
	cfg := config{
		out:    os.Stdout,
		locale: render.DefaultLocale,
		theme:  DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(cfg.out)
	}
	return cfg
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithOutput sets where tables and messages are written.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		if w != nil {
			cfg.out = w
		}
	}
}

// WithTranslator localises menu entries and prompts for locale.
func WithTranslator(t render.Translator, locale string) Option {
	return func(cfg *config) {
		cfg.translator = t
		cfg.locale = render.ResolveLocale(locale)
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

func (cfg config) tr(key, fallback string) string {
	return render.Translate(cfg.translator, nil, cfg.locale, key, fallback)
}
