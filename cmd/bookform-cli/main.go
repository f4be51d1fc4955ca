package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	bookform "github.com/goliatone/go-bookform"
	"github.com/goliatone/go-bookform/internal/bootstrap"
	"github.com/goliatone/go-bookform/internal/config"
	"github.com/goliatone/go-bookform/pkg/renderers/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bookform-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bookform-cli", flag.ContinueOnError)
	flags := config.RegisterFlags(fs, false)
	logFile := fs.String("log-file", "", "append logs to this file (discarded when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{File: flags.ConfigFile, EnvFile: flags.EnvFile})
	if err != nil {
		return err
	}
	flags.Apply(fs, &cfg)

	var logOut io.Writer
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Build(ctx, cfg, logOut)
	if err != nil {
		return err
	}
	defer rt.Close()

	page := bookform.NewPage(rt.Client,
		bookform.WithTranslator(rt.Translator, cfg.UI.Locale),
		bookform.WithLogger(rt.Logger),
	)
	session := tui.NewSession(page,
		tui.WithOutput(os.Stdout),
		tui.WithTranslator(rt.Translator, cfg.UI.Locale),
	)
	return session.Run(ctx)
}
