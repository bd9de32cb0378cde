package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// SlogConfig configures the stdout logger.
type SlogConfig struct {
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	IsJSON    bool
	UseColor  bool
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlog builds a Logger on top of log/slog. Colour output goes through tint.
func NewSlog(cfg SlogConfig) Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	var handler slog.Handler
	switch {
	case cfg.IsJSON:
		handler = slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{AddSource: cfg.AddSource, Level: cfg.Level})
	case cfg.UseColor:
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		handler = slog.NewTextHandler(cfg.Writer, &slog.HandlerOptions{AddSource: cfg.AddSource, Level: cfg.Level})
	}

	return &slogLogger{logger: slog.New(handler)}
}

func toAttrs(fields Fields) []any {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *slogLogger) Info(msg string, fields Fields) {
	l.logger.Info(msg, toAttrs(fields)...)
}

func (l *slogLogger) Warn(msg string, fields Fields) {
	l.logger.Warn(msg, toAttrs(fields)...)
}

func (l *slogLogger) Error(msg string, err error, fields Fields) {
	attrs := toAttrs(fields)
	if err != nil {
		attrs = append(attrs, tint.Err(err))
	}
	l.logger.Error(msg, attrs...)
}

func (l *slogLogger) Debug(msg string, fields Fields) {
	l.logger.Debug(msg, toAttrs(fields)...)
}

func (l *slogLogger) WithFields(fields Fields) Logger {
	return &slogLogger{logger: l.logger.With(toAttrs(fields)...)}
}
