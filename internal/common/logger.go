package common

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/reserve-fetch/models"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the JSON logger used by every command. Records go to
// stderr and, when cfg.File is set, to a size-rotated log file as well.
// quiet limits output to errors.
func NewLogger(cfg models.LogConfig, quiet bool) *slog.Logger {
	return newLogger(os.Stderr, cfg, quiet)
}

func newLogger(console io.Writer, cfg models.LogConfig, quiet bool) *slog.Logger {
	level := ParseLevel(cfg.Level)
	if quiet {
		level = slog.LevelError
	}

	out := console
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err == nil {
			out = io.MultiWriter(console, &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				LocalTime:  true,
			})
		}
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to slog; unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
