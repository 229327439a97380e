package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("careflow", "0.0.1", exporter))

	ctx, parent := StartSpan(context.Background(), "compile", "INTERNAL")
	current, ok := SpanFromContext(ctx)
	require.True(t, ok)
	assert.NotNil(t, current)

	_, child := StartSpan(ctx, "schema", "")
	child.WithAttributes(map[string]string{"workflow": "prior-auth"}).WithInt("steps", 3)
	EndSpan(child, errors.New("invalid"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "schema", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	_, ok = SpanFromContext(context.Background())
	assert.False(t, ok)
	EndSpan(nil, nil)
}
