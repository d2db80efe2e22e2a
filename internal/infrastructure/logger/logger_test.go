package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"json to stdout", Config{Level: "info", Format: "json", Output: "stdout"}},
		{"console to stderr", Config{Level: "debug", Format: "console", Output: "stderr"}},
		{"unknown level falls back", Config{Level: "nonsense", Format: "json", Output: "stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		log, err := NewForEnvironment("development")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("production", func(t *testing.T) {
		log, err := NewForEnvironment("production")
		require.NoError(t, err)
		assert.NotNil(t, log)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestSync(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	// Sync on stderr may return an error on some platforms, it must not panic
	_ = Sync(log)
}
