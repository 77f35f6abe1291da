package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"

	"github.com/fyrsmithlabs/creatived/internal/logging"
)

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.Nil(t, tel.LoggerProvider())
	assert.False(t, tel.IsEnabled())

	h := tel.Health()
	assert.True(t, h.Healthy)
	assert.False(t, h.Degraded)
}

func TestNew_DisabledRejectsOTELOnlyLogging(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	cfg := logging.NewDefaultConfig()
	cfg.Output = logging.OutputConfig{OTEL: true}
	_, err = logging.NewLogger(cfg, tel.LoggerProvider())
	assert.ErrorContains(t, err, "no log output available")
}

func TestNew_EnabledExportsLogs(t *testing.T) {
	prevTracer, prevMeter, prevLogger := otel.GetTracerProvider(), otel.GetMeterProvider(), global.GetLoggerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTracer)
		otel.SetMeterProvider(prevMeter)
		global.SetLoggerProvider(prevLogger)
	})

	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.Metrics.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		_ = tel.Shutdown(ctx)
	})

	lp := tel.LoggerProvider()
	require.NotNil(t, lp)
	assert.Same(t, lp, global.GetLoggerProvider())

	logCfg := logging.NewDefaultConfig()
	logCfg.Output = logging.OutputConfig{OTEL: true}
	logger, err := logging.NewLogger(logCfg, lp)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNew_LogsDisabled(t *testing.T) {
	prevTracer, prevLogger := otel.GetTracerProvider(), global.GetLoggerProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTracer)
		global.SetLoggerProvider(prevLogger)
	})

	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.Metrics.Enabled = false
	cfg.Logs.Enabled = false

	tel, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })
	assert.Nil(t, tel.LoggerProvider())
}

func TestNew_InvalidConfig(t *testing.T) {
	tel, err := New(context.Background(), &Config{Enabled: true})
	require.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotPanics(t, func() {
		_ = tel.Tracer("test")
		_ = tel.Meter("test")
		_ = tel.IsEnabled()
		_ = tel.Shutdown(context.Background())
	})
	assert.True(t, tel.Health().Degraded)
}

func TestTelemetry_ShutdownMarksUnhealthy(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.Health().Healthy)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"disabled skips checks", func(c *Config) { c.Endpoint = "" }, ""},
		{"enabled default", func(c *Config) { c.Enabled = true }, ""},
		{"missing endpoint", func(c *Config) { c.Enabled = true; c.Endpoint = "" }, "endpoint is required"},
		{"missing service", func(c *Config) { c.Enabled = true; c.ServiceName = "" }, "service_name"},
		{"bad protocol", func(c *Config) { c.Enabled = true; c.Protocol = "udp" }, "protocol"},
		{"insecure remote", func(c *Config) { c.Enabled = true; c.Endpoint = "otel.example.com:4317" }, "insecure"},
		{"secure remote", func(c *Config) {
			c.Enabled = true
			c.Endpoint = "otel.example.com:4317"
			c.Insecure = false
		}, ""},
		{"sampling out of range", func(c *Config) { c.Enabled = true; c.Sampling.Rate = 1.5 }, "sampling.rate"},
		{"zero export interval", func(c *Config) { c.Enabled = true; c.Metrics.ExportInterval = 0 }, "export_interval"},
		{"zero shutdown timeout", func(c *Config) { c.Enabled = true; c.Shutdown.Timeout = 0 }, "shutdown.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_IsLocalEndpoint(t *testing.T) {
	for endpoint, want := range map[string]bool{
		"localhost:4317":        true,
		"127.0.0.1:4317":        true,
		"http://localhost:4318": true,
		"[::1]:4317":            true,
		"collector:4317":        false,
		"10.0.0.5:4317":         false,
	} {
		cfg := &Config{Endpoint: endpoint}
		assert.Equal(t, want, cfg.isLocalEndpoint(), endpoint)
	}
}

func TestTestTelemetry_RecordsSpans(t *testing.T) {
	tt := NewTestTelemetry()
	tt.Install(t)

	_, span := tt.Tracer("test").Start(context.Background(), "unit.op")
	span.End()

	tt.AssertSpanExists(t, "unit.op")
	assert.True(t, tt.IsEnabled())
	assert.Equal(t, 5*time.Second, tt.config.Shutdown.Timeout)
}
