package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-bookform/internal/bootstrap"
	"github.com/goliatone/go-bookform/internal/config"
	"github.com/goliatone/go-bookform/internal/web"
	"github.com/goliatone/go-bookform/pkg/render"
	vanilla "github.com/goliatone/go-bookform/pkg/renderers/vanilla"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bookform-web: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bookform-web", flag.ContinueOnError)
	flags := config.RegisterFlags(fs, true)
	templatesDir := fs.String("templates", "", "load page templates from this directory instead of the embedded set")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{File: flags.ConfigFile, EnvFile: flags.EnvFile})
	if err != nil {
		return err
	}
	flags.Apply(fs, &cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Build(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	renderer, err := vanilla.New(
		vanilla.WithTemplatesDir(*templatesDir),
		vanilla.WithTemplateFuncs(render.TemplateI18nFuncs(rt.Translator, render.TemplateI18nConfig{})),
	)
	if err != nil {
		return err
	}

	srv, err := web.New(rt.Client, renderer,
		web.WithLogger(rt.Logger),
		web.WithTranslator(rt.Translator, cfg.UI.Locale),
		web.WithTheme(rt.Theme),
		web.WithRateLimit(cfg.HTTP.RateLimit, cfg.HTTP.Burst),
		web.WithAssets(http.FS(vanilla.AssetsFS())),
	)
	if err != nil {
		return err
	}

	rt.Logger.Info("bookform web ready", zap.String("addr", cfg.HTTP.Addr), zap.String("api", rt.Client.BaseURL()))
	return srv.ListenAndServe(ctx, cfg.HTTP.Addr)
}
