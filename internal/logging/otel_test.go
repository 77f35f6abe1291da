package logging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
)

// recordingExporter keeps the body and severity of every exported record.
type recordingExporter struct {
	mu       sync.Mutex
	bodies   []string
	severity []log.Severity
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
		e.severity = append(e.severity, r.Severity())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func TestNewLogger_OTELOnly(t *testing.T) {
	exp := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	cfg := NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}

	logger, err := NewLogger(cfg, provider)
	require.NoError(t, err)

	logger.Info(context.Background(), "analysis stored", zap.String("analysis_id", "an-1"))
	logger.Error(context.Background(), "save failed")

	exp.mu.Lock()
	defer exp.mu.Unlock()
	assert.Equal(t, []string{"analysis stored", "save failed"}, exp.bodies)
	assert.Equal(t, []log.Severity{log.SeverityInfo, log.SeverityError}, exp.severity)
}
