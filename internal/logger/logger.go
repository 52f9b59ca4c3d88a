package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey string

const sessionIDKey ctxKey = "sessionID"

// Setup installs the default slog logger. format is "json" or "text".
func Setup(level slog.Level, format string) *slog.Logger {
	return SetupWriter(os.Stdout, level, format)
}

func SetupWriter(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// WithSessionID tags ctx with the analysis session being processed.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID returns the session id stored by WithSessionID.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the default logger, tagged with the session id of ctx
// when there is one.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if id := GetSessionID(ctx); id != "" {
		l = l.With(slog.String("session_id", id))
	}
	return l
}
