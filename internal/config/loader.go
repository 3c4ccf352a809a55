package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "labelproc"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "LABELPROC"
)

// Loader handles loading configuration from files, environment variables
// and defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so cobra flag
// bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load resolves configuration from search paths, environment and defaults.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshalAndValidate()
}

// LoadWithFile resolves configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}
	return l.unmarshalAndValidate()
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	l.v.AddConfigPath("/etc/labelproc")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "labelproc"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "labelproc"))
	}
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("pipeline.detector.endpoint", defaults.Pipeline.Detector.Endpoint)
	l.v.SetDefault("pipeline.detector.api_key", defaults.Pipeline.Detector.APIKey)
	l.v.SetDefault("pipeline.detector.project", defaults.Pipeline.Detector.Project)
	l.v.SetDefault("pipeline.detector.version", defaults.Pipeline.Detector.Version)
	l.v.SetDefault("pipeline.detector.timeout_sec", defaults.Pipeline.Detector.TimeoutSec)
	l.v.SetDefault("pipeline.detector.temp_dir", defaults.Pipeline.Detector.TempDir)

	l.v.SetDefault("pipeline.geometry.lower_hue", defaults.Pipeline.Geometry.LowerHue)
	l.v.SetDefault("pipeline.geometry.upper_hue", defaults.Pipeline.Geometry.UpperHue)
	l.v.SetDefault("pipeline.geometry.min_saturation", defaults.Pipeline.Geometry.MinSaturation)
	l.v.SetDefault("pipeline.geometry.min_value", defaults.Pipeline.Geometry.MinValue)
	l.v.SetDefault("pipeline.geometry.blur_radius", defaults.Pipeline.Geometry.BlurRadius)
	l.v.SetDefault("pipeline.geometry.edge_threshold", defaults.Pipeline.Geometry.EdgeThreshold)
	l.v.SetDefault("pipeline.geometry.hough_vote_threshold", defaults.Pipeline.Geometry.HoughVoteThreshold)
	l.v.SetDefault("pipeline.geometry.hough_min_line_length", defaults.Pipeline.Geometry.HoughMinLineLength)
	l.v.SetDefault("pipeline.geometry.hough_max_line_gap", defaults.Pipeline.Geometry.HoughMaxLineGap)
	l.v.SetDefault("pipeline.geometry.max_skew_degrees", defaults.Pipeline.Geometry.MaxSkewDegrees)

	l.v.SetDefault("pipeline.recognizer.engine", defaults.Pipeline.Recognizer.Engine)
	l.v.SetDefault("pipeline.recognizer.language", defaults.Pipeline.Recognizer.Language)
	l.v.SetDefault("pipeline.recognizer.tessdata_prefix", defaults.Pipeline.Recognizer.TessdataPrefix)

	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	l.v.SetDefault("storage.dsn", defaults.Storage.DSN)

	l.v.SetDefault("printer.agent_url", defaults.Printer.AgentURL)
	l.v.SetDefault("printer.enabled", defaults.Printer.Enabled)
	l.v.SetDefault("printer.timeout_sec", defaults.Printer.TimeoutSec)

	l.v.SetDefault("vocab.base_url", defaults.Vocab.BaseURL)
	l.v.SetDefault("vocab.timeout_sec", defaults.Vocab.TimeoutSec)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "labelproc"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "labelproc"))
	}

	paths = append(paths, "/etc/labelproc")

	return paths
}
