package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func (l Log) level() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds a slog logger writing to w: tinted text for consoles, JSON otherwise.
func (l Log) Logger(w io.Writer) *slog.Logger {
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l.level()}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      l.level(),
		TimeFormat: time.DateTime,
	}))
}
