package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *LoggerConfig
		expectError bool
		level       zerolog.Level
	}{
		{
			name:   "defaults to production json",
			config: &LoggerConfig{},
			level:  zerolog.InfoLevel,
		},
		{
			name:   "development defaults to debug",
			config: &LoggerConfig{Env: "dev"},
			level:  zerolog.DebugLevel,
		},
		{
			name:   "explicit level",
			config: &LoggerConfig{Env: "staging", Level: "warn"},
			level:  zerolog.WarnLevel,
		},
		{
			name:        "invalid env",
			config:      &LoggerConfig{Env: "wrong-env"},
			expectError: true,
		},
		{
			name:        "invalid level",
			config:      &LoggerConfig{Level: "loud"},
			expectError: true,
		},
		{
			name:        "invalid format",
			config:      &LoggerConfig{Format: "xml"},
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(test.config, &buf)
			if test.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.level, l.GetLevel())
		})
	}
}

func TestNew_json(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&LoggerConfig{
		ServiceName: "test-service",
		Fields:      map[string]any{"key": "value"},
	}, &buf)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("run_id", "abc").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"visible"`)
	assert.Contains(t, out, `"service":"test-service"`)
	assert.Contains(t, out, `"env":"prod"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"run_id":"abc"`)
}

func TestNew_console(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&LoggerConfig{Format: "console", Level: "debug"}, &buf)
	require.NoError(t, err)

	l.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestApplyTimeFormat(t *testing.T) {
	prev := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = prev })

	ApplyTimeFormat(&LoggerConfig{TimeFormat: "unix"})
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)

	ApplyTimeFormat(&LoggerConfig{TimeFormat: "unix_ms"})
	assert.Equal(t, zerolog.TimeFormatUnixMs, zerolog.TimeFieldFormat)
}
