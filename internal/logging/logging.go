// Package logging builds the process logger: a styled console sink on stderr
// and an optional logfmt file sink, exposed as a *slog.Logger.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/planboard/internal/config"
	charmLog "github.com/charmbracelet/log"
)

// Logger owns the configured sinks.
type Logger struct {
	sinks     []*charmLog.Logger
	closeFile func() error
	filePath  string
}

// New configures sinks from cfg. The console sink writes to stderr.
func New(stderr io.Writer, cfg config.LoggingConfig) (*Logger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}

	console := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          config.AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
	l := &Logger{sinks: []*charmLog.Logger{console}}
	if cfg.File == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	// File output stays parseable and unstyled.
	l.sinks = append(l.sinks, charmLog.NewWithOptions(f, charmLog.Options{
		Level:           level,
		Prefix:          config.AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	}))
	l.closeFile = f.Close
	l.filePath = cfg.File
	return l, nil
}

// FilePath returns the file sink path, or "" without one.
func (l *Logger) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// Close closes the file sink.
func (l *Logger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// Slog returns a *slog.Logger writing to every sink.
func (l *Logger) Slog() *slog.Logger {
	handlers := make([]slog.Handler, len(l.sinks))
	for n, s := range l.sinks {
		handlers[n] = s
	}
	return slog.New(fanout(handlers))
}

// fanout sends each record to every handler enabled for its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for n, h := range f {
		out[n] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for n, h := range f {
		out[n] = h.WithGroup(name)
	}
	return out
}
