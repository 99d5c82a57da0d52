// Package logging builds the zerolog logger used across the sweep tool.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"server-sweep/internal/config"
)

// New creates a zerolog logger from the logging configuration.
// Console output goes to stderr; when cfg.File is set, JSON lines are also
// written to a size-rotated file.
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	return newWithOutput(cfg, os.Stderr)
}

func newWithOutput(cfg config.LoggingConfig, stderr io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	if cfg.Format == "json" {
		output = stderr
	} else {
		output = zerolog.ConsoleWriter{
			Out:        stderr,
			TimeFormat: "15:04:05",
		}
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), err
		}
		output = zerolog.MultiLevelWriter(output, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays, // days
			Compress:   cfg.Compress,
		})
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// Console returns a minimal console logger for failures that happen before
// the configuration is available.
func Console(level string) zerolog.Logger {
	logger, _ := New(config.LoggingConfig{Level: level, Format: "console"})
	return logger
}
