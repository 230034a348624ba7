package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	dev, err := New(true)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod, err := New(false)
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))
}

func TestSetLoggerCapturesOutput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := SetLogger(zap.New(core))
	defer restore()

	Debug("hidden")
	Info("populated", zap.Int("written", 3))
	Warn("slow batch")
	With(zap.String("component", "lookup")).Error("miss failed")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "populated", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["written"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "lookup", entries[2].ContextMap()["component"])
}

func TestSetLoggerRestore(t *testing.T) {
	first := zap.NewNop()
	restoreFirst := SetLogger(first)
	defer restoreFirst()

	restore := SetLogger(zap.NewExample())
	assert.NotSame(t, first, L())
	restore()
	assert.Same(t, first, L())
}
