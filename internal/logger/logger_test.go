package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Development(t *testing.T) {
	log, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, log)

	// Should not panic
	log.Info("test message")
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Production(t *testing.T) {
	log, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { _ = Must(true) })
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	log := zap.NewExample()
	assert.Same(t, log, OrNop(log))
}

func TestForRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ForRun(zap.New(core), "run-123").Info("analysis finished")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "analysis finished", entry.Message)
	assert.Equal(t, "run-123", entry.ContextMap()["run_id"])
}
