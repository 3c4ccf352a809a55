package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "invalid log level",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadMB = 0 },
			wantErr: "max upload size",
		},
		{
			name:    "inverted hue window",
			mutate:  func(c *Config) { c.Pipeline.Geometry.LowerHue = 300 },
			wantErr: "invalid hue window",
		},
		{
			name:    "skew out of range",
			mutate:  func(c *Config) { c.Pipeline.Geometry.MaxSkewDegrees = 95 },
			wantErr: "max skew",
		},
		{
			name:    "edge threshold out of range",
			mutate:  func(c *Config) { c.Pipeline.Geometry.EdgeThreshold = 300 },
			wantErr: "edge threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "tesseract", cfg.Pipeline.Recognizer.Engine)
	assert.InDelta(t, 30.0, cfg.Pipeline.Geometry.MaxSkewDegrees, 1e-9)
	assert.Empty(t, cfg.Storage.DSN)
	assert.False(t, cfg.Printer.Enabled)
}
