package config

import (
	"flag"
	"time"
)

// Flags are the command line overrides. Only flags given explicitly replace
// resolved values.
type Flags struct {
	ConfigFile string
	EnvFile    string

	baseURL   string
	timeout   time.Duration
	addr      string
	locale    string
	theme     string
	variant   string
	logLevel  string
	logFormat string
	fakeAPI   bool
	contract  bool
}

// RegisterFlags declares the shared flags on fs. The web flag set adds the
// listener address.
func RegisterFlags(fs *flag.FlagSet, web bool) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigFile, "config", "", "path to a YAML config file")
	fs.StringVar(&f.EnvFile, "env-file", "", "path to a .env file (default .env when present)")
	fs.StringVar(&f.baseURL, "api", defaultBaseURL, "books collection URL")
	fs.DurationVar(&f.timeout, "timeout", defaultTimeout, "request timeout for the books API")
	fs.StringVar(&f.locale, "locale", defaultLocale, "UI locale (ko, en)")
	fs.StringVar(&f.theme, "theme", defaultTheme, "theme name")
	fs.StringVar(&f.variant, "variant", "", "theme variant")
	fs.StringVar(&f.logLevel, "log-level", defaultLogLevel, "log level")
	fs.StringVar(&f.logFormat, "log-format", defaultLogFormat, "log format (json, console)")
	fs.BoolVar(&f.fakeAPI, "fake-api", false, "serve an in-memory books API for local use")
	fs.BoolVar(&f.contract, "contract", false, "check payloads against the books OpenAPI contract")
	if web {
		fs.StringVar(&f.addr, "addr", defaultAddr, "listen address")
	}
	return f
}

// Apply copies the flags set on fs into cfg.
func (f *Flags) Apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "api":
			cfg.API.BaseURL = f.baseURL
		case "timeout":
			cfg.API.Timeout = f.timeout
		case "addr":
			cfg.HTTP.Addr = f.addr
		case "locale":
			cfg.UI.Locale = f.locale
		case "theme":
			cfg.UI.Theme = f.theme
		case "variant":
			cfg.UI.Variant = f.variant
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		case "fake-api":
			cfg.Dev.FakeAPI = f.fakeAPI
		case "contract":
			cfg.API.Contract = f.contract
		}
	})
}
