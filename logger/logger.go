package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-tides/common"
)

// Config selects the level, handler format and destination of the process logger.
type Config struct {
	Level  string    // "debug", "info", "warn", "error"
	Format string    // "text" or "json"
	Output io.Writer // defaults to os.Stderr
}

// New builds a logger for cfg without touching the slog default.
//
// Parameters:
//   - cfg: logger configuration
//
// Returns:
//   - *slog.Logger: the configured logger
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(common.Coalesce(cfg.Format, "text")) {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// Init builds a logger for cfg and installs it as the slog default.
//
// Parameters:
//   - cfg: logger configuration
//
// Returns:
//   - *slog.Logger: the installed logger
func Init(cfg Config) *slog.Logger {
	lg := New(cfg)
	slog.SetDefault(lg)
	return lg
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
