package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"console", func(c *Config) { c.Format = "console" }, false},
		{"bad format", func(c *Config) { c.Format = "xml" }, true},
		{"no output", func(c *Config) { c.Output = OutputConfig{} }, true},
		{"zero tick", func(c *Config) { c.Sampling.Tick = 0 }, true},
		{"zero tick sampling off", func(c *Config) { c.Sampling = SamplingConfig{} }, false},
		{"negative thereafter", func(c *Config) { c.Sampling.Thereafter = -1 }, true},
		{"bad pattern", func(c *Config) { c.Redaction.Patterns = []string{"["} }, true},
		{"empty field value", func(c *Config) { c.Fields["env"] = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestServiceName(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "creatived", cfg.serviceName())

	cfg.Fields = map[string]string{"service": "crtv"}
	assert.Equal(t, "crtv", cfg.serviceName())
}
