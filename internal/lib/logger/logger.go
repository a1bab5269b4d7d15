package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the root logger for the given environment.
// Local gets pretty text on stdout, dev/prod write JSON to a log file.
func SetupLogger(env, logDir string) *slog.Logger {
	switch env {
	case envDev, envProd:
		out := fileOrStdout(logDir)
		level := slog.LevelDebug
		if env == envProd {
			level = slog.LevelInfo
		}
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func fileOrStdout(logDir string) io.Writer {
	path := filepath.Join(logDir, "koldesk.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file %s unavailable, falling back to stdout: %v\n", path, err)
		return os.Stdout
	}
	return file
}

// Notifier delivers high-severity log records to an external channel.
type Notifier interface {
	Notify(text string) error
}

// notifyHandler wraps a slog handler and mirrors records at or above
// a threshold level to a Notifier (the admin telegram chat).
type notifyHandler struct {
	inner    slog.Handler
	notifier Notifier
	minLevel slog.Level
}

// SetupNotifyHandler attaches a notifier to an existing logger.
func SetupNotifyHandler(log *slog.Logger, notifier Notifier, minLevel slog.Level) *slog.Logger {
	return slog.New(&notifyHandler{
		inner:    log.Handler(),
		notifier: notifier,
		minLevel: minLevel,
	})
}

func (h *notifyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *notifyHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.minLevel && h.notifier != nil {
		text := fmt.Sprintf("[%s] %s", record.Level, record.Message)
		record.Attrs(func(a slog.Attr) bool {
			text += fmt.Sprintf("\n%s: %s", a.Key, a.Value.String())
			return true
		})
		_ = h.notifier.Notify(text)
	}
	return h.inner.Handle(ctx, record)
}

func (h *notifyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &notifyHandler{inner: h.inner.WithAttrs(attrs), notifier: h.notifier, minLevel: h.minLevel}
}

func (h *notifyHandler) WithGroup(name string) slog.Handler {
	return &notifyHandler{inner: h.inner.WithGroup(name), notifier: h.notifier, minLevel: h.minLevel}
}
