package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{ServiceName: "storefront"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestConfig_Sampler(t *testing.T) {
	traceID := trace.TraceID{0x01}
	params := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: traceID, Name: "GET /api/products"}

	always := Config{SampleRate: 1}.Sampler().ShouldSample(params)
	assert.Equal(t, sdktrace.RecordAndSample, always.Decision)

	never := Config{SampleRate: 0}.Sampler().ShouldSample(params)
	assert.Equal(t, sdktrace.Drop, never.Decision)

	assert.Contains(t, Config{SampleRate: 0.25}.Sampler().Description(), "TraceIDRatioBased")
}
