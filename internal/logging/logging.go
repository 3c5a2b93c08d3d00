package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"

	"widgetdb/pkg/config"
)

// New builds the process logger: JSON for machines, charmbracelet's
// console renderer otherwise.
func New(w io.Writer, cfg config.LoggerConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: level}))
	}

	consoleLevel, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		consoleLevel = log.InfoLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           consoleLevel,
	}))
}

// Init installs the logger as the slog default.
func Init(w io.Writer, cfg config.LoggerConfig) *slog.Logger {
	logger := New(w, cfg)
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Level, "json", cfg.JSON)
	return logger
}
