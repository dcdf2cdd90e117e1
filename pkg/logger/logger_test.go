package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		logFn     func(Logger)
		want      bool
	}{
		{
			name:      "info shown at verbosity 0",
			verbosity: 0,
			logFn:     func(l Logger) { l.Info("hello") },
			want:      true,
		},
		{
			name:      "debug hidden at verbosity 0",
			verbosity: 0,
			logFn:     func(l Logger) { l.Debug("hello") },
			want:      false,
		},
		{
			name:      "debug shown at verbosity 1",
			verbosity: 1,
			logFn:     func(l Logger) { l.Debug("hello") },
			want:      true,
		},
		{
			name:      "trace hidden at verbosity 1",
			verbosity: 1,
			logFn:     func(l Logger) { l.Trace("hello") },
			want:      false,
		},
		{
			name:      "trace shown at verbosity 2",
			verbosity: 2,
			logFn:     func(l Logger) { l.Trace("hello") },
			want:      true,
		},
		{
			name:      "error always shown",
			verbosity: 0,
			logFn:     func(l Logger) { l.Error("hello") },
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogger(Config{
				Verbosity: tt.verbosity,
				Output:    &buf,
			})

			tt.logFn(log)

			if tt.want {
				assert.Contains(t, buf.String(), "hello")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{
		Verbosity: 0,
		Output:    &buf,
	})

	log.WithFields(Fields{
		"component": "scanner",
		"files":     42,
	}).Info("count completed")

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "count completed", entry["message"])
	assert.Equal(t, "scanner", entry["component"])
	assert.Equal(t, float64(42), entry["files"])
	assert.Equal(t, "info", entry["level"])
}

func TestLoggerWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Output: &buf})

	_ = log.WithFields(Fields{"scoped": true})
	log.Info("plain")

	assert.NotContains(t, buf.String(), "scoped")
}
