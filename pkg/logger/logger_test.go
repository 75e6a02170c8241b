package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestContextHandler(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	testCases := []struct {
		name          string
		ctx           context.Context
		wantTraceID   any
		wantRequestID any
	}{
		{
			name: "plain context",
			ctx:  context.Background(),
		},
		{
			name:          "request id",
			ctx:           context.WithValue(context.Background(), middleware.RequestIDKey, "req-1"),
			wantRequestID: "req-1",
		},
		{
			name:        "span",
			ctx:         trace.ContextWithSpanContext(context.Background(), spanCtx),
			wantTraceID: "4bf92f3577b34da6a3ce929d0e0e4736",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var buf bytes.Buffer
			logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

			// when
			logger.InfoContext(tc.ctx, "hello")

			// then
			record := decode(t, &buf)
			assert.Equal(t, "test", record["component"])
			assert.Equal(t, tc.wantTraceID, record["trace_id"])
			assert.Equal(t, tc.wantRequestID, record["request_id"])
		})
	}
}
