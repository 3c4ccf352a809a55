// Package config defines the application configuration and its loading
// from files, environment variables and flags.
package config

import (
	"fmt"
	"slices"
)

// Config is the root application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Verbose  bool   `mapstructure:"verbose"`

	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Printer  PrinterConfig  `mapstructure:"printer"`
	Vocab    VocabConfig    `mapstructure:"vocab"`
}

// PipelineConfig groups the processing stage settings.
type PipelineConfig struct {
	Detector   DetectorConfig   `mapstructure:"detector"`
	Geometry   GeometryConfig   `mapstructure:"geometry"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
}

// DetectorConfig configures the remote label detection backend. Leaving
// the connection fields empty selects the full-image fallback.
type DetectorConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	Project    string `mapstructure:"project"`
	Version    string `mapstructure:"version"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
	TempDir    string `mapstructure:"temp_dir"`
}

// GeometryConfig configures skew estimation.
type GeometryConfig struct {
	LowerHue           float64 `mapstructure:"lower_hue"`
	UpperHue           float64 `mapstructure:"upper_hue"`
	MinSaturation      float64 `mapstructure:"min_saturation"`
	MinValue           float64 `mapstructure:"min_value"`
	BlurRadius         float64 `mapstructure:"blur_radius"`
	EdgeThreshold      int     `mapstructure:"edge_threshold"`
	HoughVoteThreshold int     `mapstructure:"hough_vote_threshold"`
	HoughMinLineLength int     `mapstructure:"hough_min_line_length"`
	HoughMaxLineGap    int     `mapstructure:"hough_max_line_gap"`
	MaxSkewDegrees     float64 `mapstructure:"max_skew_degrees"`
}

// RecognizerConfig configures the OCR engine.
type RecognizerConfig struct {
	Engine         string `mapstructure:"engine"`
	Language       string `mapstructure:"language"`
	TessdataPrefix string `mapstructure:"tessdata_prefix"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	CORSOrigin      string `mapstructure:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// StorageConfig configures label persistence. An empty DSN keeps labels
// in memory.
type StorageConfig struct {
	DSN string `mapstructure:"dsn"`
}

// PrinterConfig configures print delivery.
type PrinterConfig struct {
	AgentURL   string `mapstructure:"agent_url"`
	Enabled    bool   `mapstructure:"enabled"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// VocabConfig configures the vocabulary source for field matching.
type VocabConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Pipeline: PipelineConfig{
			Detector: DetectorConfig{
				TimeoutSec: 30,
			},
			Geometry: GeometryConfig{
				LowerHue:           180,
				UpperHue:           260,
				MinSaturation:      0.2,
				MinValue:           0.2,
				BlurRadius:         1.4,
				EdgeThreshold:      80,
				HoughVoteThreshold: 50,
				HoughMinLineLength: 50,
				HoughMaxLineGap:    10,
				MaxSkewDegrees:     30,
			},
			Recognizer: RecognizerConfig{
				Engine:   "tesseract",
				Language: "eng",
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     20,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
		Printer: PrinterConfig{
			AgentURL:   "http://localhost:8080",
			TimeoutSec: 10,
		},
		Vocab: VocabConfig{
			TimeoutSec: 10,
		},
	}
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q, must be one of %v", c.LogLevel, validLogLevels)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.Server.MaxUploadMB)
	}
	g := c.Pipeline.Geometry
	if g.LowerHue < 0 || g.UpperHue > 360 || g.LowerHue >= g.UpperHue {
		return fmt.Errorf("invalid hue window [%v, %v]", g.LowerHue, g.UpperHue)
	}
	if g.MaxSkewDegrees <= 0 || g.MaxSkewDegrees >= 90 {
		return fmt.Errorf("max skew must be in (0, 90), got %v", g.MaxSkewDegrees)
	}
	if g.EdgeThreshold < 0 || g.EdgeThreshold > 255 {
		return fmt.Errorf("edge threshold must be in [0, 255], got %d", g.EdgeThreshold)
	}
	return nil
}
