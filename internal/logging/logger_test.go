package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, logger.Underlying())
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"
	_, err := NewLogger(cfg, nil)
	assert.Error(t, err)
}

func TestNewLogger_OTELWithoutProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}
	_, err := NewLogger(cfg, nil)
	assert.Error(t, err)
}

func TestLogger_Levels(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Trace(ctx, "trace message")
	tl.Debug(ctx, "debug message")
	tl.Info(ctx, "info message", zap.String("key", "val"))
	tl.Warn(ctx, "warn message")
	tl.Error(ctx, "error message")

	tl.AssertLogged(t, TraceLevel, "trace message")
	tl.AssertLogged(t, zapcore.DebugLevel, "debug message")
	tl.AssertLogged(t, zapcore.WarnLevel, "warn message")
	tl.AssertLogged(t, zapcore.ErrorLevel, "error message")
	tl.AssertField(t, "info message", "key", "val")
	assert.Len(t, tl.All(), 5)
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithDocumentID(ctx, "campaign_007")
	tl.Info(ctx, "saved")

	tl.AssertField(t, "saved", "request.id", "req-1")
	tl.AssertField(t, "saved", "document.id", "campaign_007")
}

func TestLogger_TraceCorrelation(t *testing.T) {
	tl := NewTestLogger()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	tl.Info(ctx, "traced")
	tl.AssertField(t, "traced", "trace_id", "4bf92f3577b34da6a3ce929d0e0e4736")
	tl.AssertField(t, "traced", "span_id", "00f067aa0ba902b7")
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()
	child := tl.With(zap.String("component", "store")).Named("store")

	child.Info(context.Background(), "opened")

	entries := tl.FilterMessage("opened").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.Equal(t, "store", entries[0].ContextMap()["component"])
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	assert.Same(t, tl.Logger, FromContext(ctx))
}

func TestWithIDs_EmptyAndLong(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	assert.Empty(t, RequestIDFromContext(ctx))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	ctx = WithDocumentID(ctx, string(long))
	assert.Len(t, DocumentIDFromContext(ctx), maxIDLen)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, l)

	l, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogger_Sync(t *testing.T) {
	assert.NoError(t, NewNop().Sync())
}
