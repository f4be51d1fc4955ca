// Package config resolves front-end settings from, in increasing precedence,
// built-in defaults, a YAML file, a .env file, BOOKFORM_* environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "BOOKFORM"

// DefaultEnvFile is read when present; a missing file is not an error.
const DefaultEnvFile = ".env"

const (
	defaultBaseURL   = "http://localhost:8080/api/books"
	defaultAddr      = ":8081"
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 5.0
	defaultBurst     = 10
	defaultLocale    = "ko"
	defaultTheme     = "paper"
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// Config holds every setting either front-end reads.
type Config struct {
	API  API  `yaml:"api"`
	HTTP HTTP `yaml:"http"`
	UI   UI   `yaml:"ui"`
	Log  Log  `yaml:"log"`
	Dev  Dev  `yaml:"dev"`
}

// API locates the books backend.
type API struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Contract  bool          `yaml:"contract"`
}

// HTTP configures the web front-end listener.
type HTTP struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// UI selects language and look.
type UI struct {
	Locale  string `yaml:"locale"`
	Theme   string `yaml:"theme"`
	Variant string `yaml:"variant"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Dev toggles local development helpers.
type Dev struct {
	// FakeAPI serves an in-memory backend instead of calling API.BaseURL.
	FakeAPI bool `yaml:"fake_api"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		API: API{
			BaseURL:   defaultBaseURL,
			Timeout:   defaultTimeout,
			UserAgent: "go-bookform",
		},
		HTTP: HTTP{
			Addr:      defaultAddr,
			RateLimit: defaultRateLimit,
			Burst:     defaultBurst,
		},
		UI: UI{
			Locale: defaultLocale,
			Theme:  defaultTheme,
		},
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// LoadOptions name the files Load reads.
type LoadOptions struct {
	// File is a YAML config file. When set it must exist.
	File string
	// EnvFile is a dotenv file. Empty means DefaultEnvFile, which may be
	// absent.
	EnvFile string
}

// Load resolves the configuration. Flags are applied afterwards with
// Flags.Apply.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		raw, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range flatten(cfg) {
		v.SetDefault(key, value)
		if fromFile, ok := dotenv[EnvName(key)]; ok {
			v.SetDefault(key, fromFile)
		}
	}

	cfg.API.BaseURL = v.GetString("api.base_url")
	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.API.UserAgent = v.GetString("api.user_agent")
	cfg.API.Contract = v.GetBool("api.contract")
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.RateLimit = v.GetFloat64("http.rate_limit")
	cfg.HTTP.Burst = v.GetInt("http.burst")
	cfg.UI.Locale = v.GetString("ui.locale")
	cfg.UI.Theme = v.GetString("ui.theme")
	cfg.UI.Variant = v.GetString("ui.variant")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Dev.FakeAPI = v.GetBool("dev.fake_api")

	return cfg, nil
}

// EnvName returns the environment variable overriding key, for example
// BOOKFORM_API_BASE_URL for "api.base_url".
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate rejects settings the front-ends cannot run with.
func (c Config) Validate() error {
	var errs []error
	if !c.Dev.FakeAPI {
		parsed, err := url.Parse(c.API.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL))
		}
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, errors.New("http.rate_limit must not be negative"))
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.Burst < 1 {
		errs = append(errs, errors.New("http.burst must be at least 1 when rate limiting"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	optional := path == ""
	if optional {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("config: read env file %s: %w", path, err)
	}
	return values, nil
}

func flatten(cfg Config) map[string]any {
	return map[string]any{
		"api.base_url":    cfg.API.BaseURL,
		"api.timeout":     cfg.API.Timeout,
		"api.user_agent":  cfg.API.UserAgent,
		"api.contract":    cfg.API.Contract,
		"http.addr":       cfg.HTTP.Addr,
		"http.rate_limit": cfg.HTTP.RateLimit,
		"http.burst":      cfg.HTTP.Burst,
		"ui.locale":       cfg.UI.Locale,
		"ui.theme":        cfg.UI.Theme,
		"ui.variant":      cfg.UI.Variant,
		"log.level":       cfg.Log.Level,
		"log.format":      cfg.Log.Format,
		"dev.fake_api":    cfg.Dev.FakeAPI,
	}
}
