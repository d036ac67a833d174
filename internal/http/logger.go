package http

import (
	"fmt"

	"github.com/arkio/arkio-client/pkg/arkio"
)

// leveledLogger feeds go-retryablehttp warnings and errors into an
// arkio.Logger. Debug and info output is dropped; Client logs its own
// requests when debug is enabled.
type leveledLogger struct {
	logger arkio.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

// toFields converts alternating keys and values to a field map, redacting
// credentials from string and error values.
func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])

		switch value := keysAndValues[i+1].(type) {
		case string:
			fields[key] = redactText(value)
		case error:
			fields[key] = redactText(value.Error())
		case fmt.Stringer:
			fields[key] = redactText(value.String())
		default:
			fields[key] = value
		}
	}

	return fields
}
