package logger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig holds the Fluent Bit forward endpoint.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
}

// NewFluentClient connects a forward client. fluent.New does not ping, so
// delivery errors only show up on the first Post.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client: %w", err)
	}
	return client, nil
}

type poster interface {
	Post(tag string, message interface{}) error
}

type fluentLogger struct {
	client   poster
	fields   Fields
	minLevel slog.Level
}

// NewFluent returns a Logger that forwards entries to Fluent Bit.
func NewFluent(client *fluent.Fluent, minLevel slog.Leveler) (Logger, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}
	return newFluentLogger(client, minLevel), nil
}

func newFluentLogger(client poster, minLevel slog.Leveler) *fluentLogger {
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}
	return &fluentLogger{client: client, fields: Fields{}, minLevel: level}
}

func (l *fluentLogger) post(level slog.Level, tag, msg string, fields Fields) {
	if level < l.minLevel {
		return
	}
	data := mergeFields(l.fields, fields)
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	// A failed post must never break the request being logged.
	_ = l.client.Post(tag, data)
}

func (l *fluentLogger) Info(msg string, fields Fields) {
	l.post(slog.LevelInfo, "info", msg, fields)
}

func (l *fluentLogger) Warn(msg string, fields Fields) {
	l.post(slog.LevelWarn, "warn", msg, fields)
}

func (l *fluentLogger) Error(msg string, err error, fields Fields) {
	if err != nil {
		fields = mergeFields(fields, Fields{"error": err.Error()})
	}
	l.post(slog.LevelError, "error", msg, fields)
}

func (l *fluentLogger) Debug(msg string, fields Fields) {
	l.post(slog.LevelDebug, "debug", msg, fields)
}

func (l *fluentLogger) WithFields(fields Fields) Logger {
	return &fluentLogger{
		client:   l.client,
		fields:   mergeFields(l.fields, fields),
		minLevel: l.minLevel,
	}
}
