package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	log, err := New(&Config{Level: "debug", Format: "json", Output: "stdout", TimeFormat: "2006-01-02"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(&Config{Level: "warn", Format: "console", Output: "stderr", TimeFormat: "2006-01-02"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestNewForEnvironment(t *testing.T) {
	log, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")
	ctx = WithContext(ctx, enriched)

	L(ctx).Info("payment registered", zap.String("payment_id", "p1"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "payment registered", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "p1", fields["payment_id"])
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	// no-op logger must not panic
	log.Info("ignored")
}
