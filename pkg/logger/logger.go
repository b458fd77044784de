// Package logger configures the process-wide slog logger. Text output is
// rendered by charmbracelet/log; JSON output uses the standard slog handler.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type contextKey struct{}

// Levels indexed by verbosity, quietest first.
var verbosityLevels = []string{"error", "warn", "info", "debug"}

func Setup(level string, format string, w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(level, format, w)))
}

// NewHandler builds the handler Setup installs, for callers that want a
// logger without touching the default.
func NewHandler(level string, format string, w io.Writer) slog.Handler {
	switch format {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: parseLevel(level),
		})
	default:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmLevel(parseLevel(level)),
			ReportTimestamp: false,
			Prefix:          "isostate",
		})
	}
}

// LevelFromVerbosity maps repeated -v and -q flags onto a level name. One
// step above the quietest level is the baseline.
func LevelFromVerbosity(verbose, quiet int) string {
	i := 1 + verbose - quiet
	i = max(0, min(len(verbosityLevels)-1, i))
	return verbosityLevels[i]
}

func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if sessionID, ok := ctx.Value(contextKey{}).(string); ok {
		logger = logger.With("session", sessionID)
	}
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch level {
	case slog.LevelDebug:
		return charmlog.DebugLevel
	case slog.LevelInfo:
		return charmlog.InfoLevel
	case slog.LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.WarnLevel
	}
}
