// Package logger builds the process-wide slog logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"research-assistant/internal/domain"
	"research-assistant/internal/infra/config"
)

// New returns a logger for cfg and a closer for its output. The terminal UI
// owns stdout, so the default configuration writes to a file.
func New(cfg config.LoggerConfig) (*slog.Logger, func() error, error) {
	w, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output %q: %w", cfg.Output, err)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(conversationHandler{h}), closer, nil
}

// Component scopes log to a subsystem.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}

// conversationHandler adds conversation_id to records logged with a context
// that carries one.
type conversationHandler struct{ slog.Handler }

func (h conversationHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := domain.ConversationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("conversation_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h conversationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return conversationHandler{h.Handler.WithAttrs(attrs)}
}

func (h conversationHandler) WithGroup(name string) slog.Handler {
	return conversationHandler{h.Handler.WithGroup(name)}
}

func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func nopClose() error { return nil }

// openOutput resolves "stdout", "stderr", "none" (or empty) and file paths.
// Files are appended to and their directory is created on demand.
func openOutput(output string) (io.Writer, func() error, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nopClose, nil
	case "stderr":
		return os.Stderr, nopClose, nil
	case "", "none", "discard":
		return io.Discard, nopClose, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
