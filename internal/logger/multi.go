package logger

import "fmt"

type multiLogger struct {
	loggers []Logger
}

// NewMulti fans every entry out to all loggers.
func NewMulti(loggers ...Logger) (Logger, error) {
	if len(loggers) == 0 {
		return nil, fmt.Errorf("multilogger: at least one logger is required")
	}
	if len(loggers) == 1 {
		return loggers[0], nil
	}
	return &multiLogger{loggers: loggers}, nil
}

func (m *multiLogger) Info(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Info(msg, fields)
	}
}

func (m *multiLogger) Warn(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Warn(msg, fields)
	}
}

func (m *multiLogger) Error(msg string, err error, fields Fields) {
	for _, l := range m.loggers {
		l.Error(msg, err, fields)
	}
}

func (m *multiLogger) Debug(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Debug(msg, fields)
	}
}

func (m *multiLogger) WithFields(fields Fields) Logger {
	enriched := make([]Logger, 0, len(m.loggers))
	for _, l := range m.loggers {
		enriched = append(enriched, l.WithFields(fields))
	}
	return &multiLogger{loggers: enriched}
}
