package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("development", false))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("production", true))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN", false))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("", true))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("", false))
}

func TestGetBeforeInitIsNop(t *testing.T) {
	mu.Lock()
	global = nil
	mu.Unlock()

	l := Get()
	require.NotNil(t, l)
	l.Info("discarded", zap.String("k", "v"))
}

func TestInit(t *testing.T) {
	err := Init(&Config{Level: "info", ServiceName: "handiq-test"})
	require.NoError(t, err)
	defer Sync()

	l := Get().With(zap.String("component", "test"))
	assert.NotNil(t, l.Zap())
}
