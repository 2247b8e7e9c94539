package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(Config{ServiceName: "techbookstore-test", Environment: "test"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, shutdown(context.Background())) }()

	ctx, span := StartSpan(context.Background(), "test", "Ping")
	defer span.End()

	// 未启用导出时仍生成TraceID
	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}

func TestStartSpan_ParentChild(t *testing.T) {
	rec := installRecorder(t)

	ctx, parent := StartSpan(context.Background(), "order", "ConfirmOrder", attribute.Int64("order.id", 7))
	_, child := StartSpan(ctx, "inventory", "ReserveStock")
	child.End()
	parent.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "ReserveStock", spans[0].Name())
	assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[1].Attributes(), attribute.Int64("order.id", 7))
}

func TestEnd_RecordsError(t *testing.T) {
	rec := installRecorder(t)

	_, span := StartSpan(context.Background(), "order", "ConfirmOrder")
	End(span, errors.New("库存不足"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "库存不足", spans[0].Status().Description)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestExtractTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
