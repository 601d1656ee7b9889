package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/awestore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installSpanRecorder swaps the global tracer provider for one backed
// by an in-memory recorder and restores it when the test finishes.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

// attrValues flattens recorded span attributes into a map for lookups.
func attrValues(spans []sdktrace.ReadOnlySpan) map[string]interface{} {
	values := make(map[string]interface{})
	for _, s := range spans {
		for _, attr := range s.Attributes() {
			values[string(attr.Key)] = attr.Value.AsInterface()
		}
	}
	return values
}

func TestStartSpan(t *testing.T) {
	t.Run("records name and default kind", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "catalog.list")
		require.NotNil(t, span)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "catalog.list", spans[0].Name())
		assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	})

	t.Run("honors start options", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "cart.checkout",
			telemetry.WithAttribute(telemetry.SpanAttrCustomerID, "cust-1"),
			telemetry.WithSpanKind(trace.SpanKindClient),
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
		assert.Equal(t, "cust-1", attrValues(spans)[telemetry.SpanAttrCustomerID])
	})

	t.Run("nests under the parent in context", func(t *testing.T) {
		sr := installSpanRecorder(t)

		ctx, parent := telemetry.StartSpan(context.Background(), "order.create")
		_, child := telemetry.StartSpan(ctx, "order.reserve_stock")
		child.End()
		parent.End()

		spans := sr.Ended()
		require.Len(t, spans, 2)

		byName := make(map[string]sdktrace.ReadOnlySpan, len(spans))
		for _, s := range spans {
			byName[s.Name()] = s
		}
		parentSpan, childSpan := byName["order.create"], byName["order.reserve_stock"]
		require.NotNil(t, parentSpan)
		require.NotNil(t, childSpan)
		assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
		assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
	})
}

func TestStartServiceSpan(t *testing.T) {
	sr := installSpanRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "order", "create")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "order.create", spans[0].Name())
}

func TestSetAttributes(t *testing.T) {
	t.Run("records typed pairs", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "order.create")
		telemetry.SetAttributes(span,
			telemetry.SpanAttrOrderNumber, "AWE-20250101-0001",
			"items_count", 3,
			"from_cart", true,
		)
		span.End()

		values := attrValues(sr.Ended())
		assert.Equal(t, "AWE-20250101-0001", values[telemetry.SpanAttrOrderNumber])
		assert.Equal(t, int64(3), values["items_count"])
		assert.Equal(t, true, values["from_cart"])
	})

	t.Run("supports every value shape", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "catalog.search")
		telemetry.SetAttributes(span,
			"string", "keyboard",
			"int", 42,
			"int64", int64(100),
			"float64", 3.14,
			"bool", true,
			"string_slice", []string{"electronics", "audio"},
			"int_slice", []int{1, 2, 3},
			"int64_slice", []int64{10, 20},
			"float64_slice", []float64{1.1, 2.2},
			"bool_slice", []bool{true, false},
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.GreaterOrEqual(t, len(spans[0].Attributes()), 10)
	})

	t.Run("drops a trailing orphan key", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "order.create")
		telemetry.SetAttributes(span,
			"key1", "value1",
			"key2", "value2",
			"orphan",
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Len(t, spans[0].Attributes(), 2)
	})

	t.Run("skips non-string keys", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "order.create")
		telemetry.SetAttributes(span,
			"valid", "value",
			123, "dropped",
		)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Len(t, spans[0].Attributes(), 1)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		telemetry.SetAttributes(nil, "key", "value")
	})
}

func TestSetAttribute(t *testing.T) {
	t.Run("stringifies uuid values", func(t *testing.T) {
		sr := installSpanRecorder(t)

		orderID := uuid.New()
		_, span := telemetry.StartSpan(context.Background(), "order.get")
		telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, orderID)
		span.End()

		assert.Equal(t, orderID.String(), attrValues(sr.Ended())[telemetry.SpanAttrOrderID])
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		telemetry.SetAttribute(nil, "key", "value")
	})
}

func TestRecordError(t *testing.T) {
	t.Run("marks the span and records an exception event", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "order.create")
		telemetry.RecordError(span, errors.New("insufficient stock"))
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "insufficient stock", spans[0].Status().Description)

		events := spans[0].Events()
		require.NotEmpty(t, events)
		assert.Equal(t, "exception", events[0].Name)
	})

	t.Run("nil error leaves the span untouched", func(t *testing.T) {
		sr := installSpanRecorder(t)

		_, span := telemetry.StartSpan(context.Background(), "order.create")
		telemetry.RecordError(span, nil)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		telemetry.RecordError(nil, errors.New("boom"))
	})
}

func TestSetOK(t *testing.T) {
	sr := installSpanRecorder(t)

	_, span := telemetry.StartSpan(context.Background(), "order.create")
	telemetry.SetOK(span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	telemetry.SetOK(nil)
}

func TestAddEvent(t *testing.T) {
	sr := installSpanRecorder(t)

	productID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "order.cancel")
	telemetry.AddEvent(span, "stock_restored",
		telemetry.SpanAttrProductID, productID.String(),
		telemetry.SpanAttrQuantity, 10,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "stock_restored", events[0].Name)

	values := make(map[string]interface{}, len(events[0].Attributes))
	for _, attr := range events[0].Attributes {
		values[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, productID.String(), values[telemetry.SpanAttrProductID])
	assert.Equal(t, int64(10), values[telemetry.SpanAttrQuantity])

	telemetry.AddEvent(nil, "ignored", "key", "value")
}

func TestSpanContextHelpers(t *testing.T) {
	t.Run("span round-trips through context", func(t *testing.T) {
		installSpanRecorder(t)

		ctx, span := telemetry.StartSpan(context.Background(), "order.get")
		defer span.End()

		retrieved := telemetry.SpanFromContext(ctx)
		assert.Equal(t, span.SpanContext().SpanID(), retrieved.SpanContext().SpanID())

		carried := telemetry.ContextWithSpan(context.Background(), span)
		assert.Equal(t, span.SpanContext().SpanID(), telemetry.SpanFromContext(carried).SpanContext().SpanID())
	})

	t.Run("empty context yields a noop span", func(t *testing.T) {
		assert.NotNil(t, telemetry.SpanFromContext(context.Background()))
	})
}

func TestGetTraceAndSpanID(t *testing.T) {
	installSpanRecorder(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "order.get")
	defer span.End()

	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Len(t, telemetry.GetSpanID(ctx), 16)
}
