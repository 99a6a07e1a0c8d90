package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/prun-ccc/internal/infrastructure/config"
)

// Logger adapts zerolog to the Log(level, message, metadata) shape handlers use
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger from the logging configuration
func New(cfg config.LoggingConfig) *Logger {
	var out io.Writer = os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *Logger {
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(w).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// parseLevel converts a configured level name to zerolog.Level
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Log writes message at level with metadata as structured fields
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	event := l.zlog.WithLevel(parseLevel(level))
	for k, v := range metadata {
		if err, ok := v.(error); ok {
			event = event.AnErr(k, err)
			continue
		}
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

// With returns a child logger carrying an extra field on every entry
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// Zerolog exposes the underlying logger
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}
