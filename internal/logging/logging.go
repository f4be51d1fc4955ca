// Package logging builds the zap loggers shared by the front-ends and exposes
// action-keyed field helpers so every remote exchange logs the same shape.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Action names the user-level operation a log line belongs to.
type Action = string

const (
	ListBooks     Action = "ListBooks"
	CreateBook    Action = "CreateBook"
	FetchBook     Action = "FetchBook"
	UpdateBook    Action = "UpdateBook"
	DeleteBook    Action = "DeleteBook"
	EnterEditMode Action = "EnterEditMode"
	SubmitForm    Action = "SubmitForm"
	CancelEdit    Action = "CancelEdit"
)

// Options configure New.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a logger writing JSON (default) or console encoded entries.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("logging: parse level %q: %w", raw, err)
		}
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return zap.New(core), nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// With returns the standard fields for an action.
func With(action Action, fields ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	out = append(out, zap.String("action", action))
	return append(out, fields...)
}

// BookID formats a record identifier field.
func BookID(id fmt.Stringer) zap.Field {
	return zap.String("book_id", id.String())
}
