package arkio

import (
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// HCLogger adapts an hclog.Logger to Logger.
type HCLogger struct {
	logger hclog.Logger
}

// NewHCLogger wraps logger. A nil logger discards everything.
func NewHCLogger(logger hclog.Logger) *HCLogger {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &HCLogger{logger: logger}
}

// NewDefaultLogger creates a named hclog logger writing to w at the given
// level name (trace, debug, info, warn, error). JSON output is used when
// jsonFormat is set.
func NewDefaultLogger(w io.Writer, level string, jsonFormat bool) *HCLogger {
	return NewHCLogger(hclog.New(&hclog.LoggerOptions{
		Name:       "arkio",
		Level:      hclog.LevelFromString(level),
		Output:     w,
		JSONFormat: jsonFormat,
	}))
}

// Debug implements Logger.
func (l *HCLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, flatten(fields)...)
}

// Info implements Logger.
func (l *HCLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, flatten(fields)...)
}

// Warn implements Logger.
func (l *HCLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, flatten(fields)...)
}

// Error implements Logger.
func (l *HCLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, flatten(fields)...)
}

// Unwrap returns the underlying hclog.Logger.
func (l *HCLogger) Unwrap() hclog.Logger {
	return l.logger
}

// flatten turns fields into sorted key/value pairs.
func flatten(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}
