package observability

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceOperation(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig("test")
	cfg.Writer = &buf
	cfg.PrettyPrint = false

	ctx := context.Background()
	require.NoError(t, InitTracing(ctx, cfg))

	tracer := NewConnectorTracer("gsheets")
	require.NoError(t, tracer.TraceOperation(ctx, "begin_scan", func(context.Context) error { return nil }))
	err := tracer.TraceOperation(ctx, "iter_scan", func(context.Context) error { return fmt.Errorf("boom") })
	assert.EqualError(t, err, "boom")

	require.NoError(t, Shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "gsheets.begin_scan")
	assert.Contains(t, out, "gsheets.iter_scan")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "sheetsfdw")
}

func TestShutdownWithoutInit(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background()))
}

func TestSamplingDisabled(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig("test")
	cfg.Writer = &buf
	cfg.SamplingRate = 0

	ctx := context.Background()
	require.NoError(t, InitTracing(ctx, cfg))
	require.NoError(t, NewConnectorTracer("gsheets").TraceOperation(ctx, "end_scan", func(context.Context) error { return nil }))
	require.NoError(t, Shutdown(ctx))

	assert.Empty(t, buf.String())
}
