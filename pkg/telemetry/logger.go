package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a zerolog logger with the given configuration. The
// returned close function releases the log file, if any.
func NewLogger(cfg LoggingConfig) (zerolog.Logger, func() error, error) {
	switch cfg.Output {
	case "", "stderr":
		return newLogger(cfg, os.Stderr), func() error { return nil }, nil
	default:
		// If it's not stderr, assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return newLogger(cfg, file), file.Close, nil
	}
}

func newLogger(cfg LoggingConfig, writer io.Writer) zerolog.Logger {
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()

	if cfg.EnableCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return zlog
}

// WithRunID adds a run_id field to the logger.
func WithRunID(logger zerolog.Logger, runID string) zerolog.Logger {
	return logger.With().Str("run_id", runID).Logger()
}

// ParseLevel converts a string log level to zerolog.Level.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
