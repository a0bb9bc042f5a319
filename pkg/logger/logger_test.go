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

func TestInit(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "debug", Encoding: "console"}))
		assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		err := Init(Config{Level: "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	ctx := NewContext(context.Background(), "gsheets", "people", "")
	WithContext(ctx).Info("scan started")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "gsheets", fields["connector"])
	assert.Equal(t, "people", fields["table"])
	assert.NotContains(t, fields, "scan_id")
}

func TestGetDefaults(t *testing.T) {
	Set(nil)
	assert.NotNil(t, Get())
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(context.Background(), "gsheets", "", "scan-1")
	assert.Equal(t, "scan-1", ScanID(ctx))
	assert.Equal(t, "gsheets", ctx.Value(ConnectorKey))
	assert.Nil(t, ctx.Value(TableKey))

	assert.Empty(t, ScanID(context.Background()))
}
