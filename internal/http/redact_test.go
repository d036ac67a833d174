package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "quoted URL in error",
			text:     `Get "http://127.0.0.1:1/user.json?password=secret&token=dev-token&username=jane": dial tcp: connection refused`,
			expected: `Get "http://127.0.0.1:1/user.json?password=REDACTED&token=REDACTED&username=jane": dial tcp: connection refused`,
		},
		{
			name:     "bare URL",
			text:     "GET http://example.com/rest/user.json?token=dev-token giving up after 2 attempt(s)",
			expected: "GET http://example.com/rest/user.json?token=REDACTED giving up after 2 attempt(s)",
		},
		{
			name:     "no query",
			text:     "request failed: EOF",
			expected: "request failed: EOF",
		},
		{
			name:     "unparseable query is dropped",
			text:     "GET http://example.com/user.json?password=%zz",
			expected: "GET http://example.com/user.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, redactText(tt.text))
		})
	}
}
