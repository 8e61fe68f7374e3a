package core

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelText(t *testing.T) {
	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal} {
		text, err := level.MarshalText()
		require.NoError(t, err)

		var parsed LogLevel
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, level, parsed)
	}

	var parsed LogLevel
	require.NoError(t, parsed.UnmarshalText([]byte("WARN")))
	assert.Equal(t, LogLevelWarn, parsed)

	assert.Error(t, parsed.UnmarshalText([]byte("verbose")))
	assert.Equal(t, "unknown", LogLevel(42).String())
}

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel(LogLevelDebug)

	SetLogLevel(LogLevelError)
	assert.Equal(t, log.ErrorLevel, getLogger().GetLevel())

	// Unknown levels fall back to info.
	SetLogLevel(LogLevel(42))
	assert.Equal(t, log.InfoLevel, getLogger().GetLevel())
}
