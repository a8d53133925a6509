// Package config provides configuration types, defaults and loading for Dawn.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tommyrac/Dawn/internal/log"
	"github.com/tommyrac/Dawn/internal/theme"
)

// Config holds all configuration options for Dawn.
type Config struct {
	Theme   theme.Settings `mapstructure:"theme" yaml:"theme"`
	Watch   WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Tracing TracingConfig  `mapstructure:"tracing" yaml:"tracing"`
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
}

// WatchConfig controls live reloading of the config file.
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Debounce is the quiet period after the last write before reloading.
	// Default: 300ms
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// TracingConfig holds tracing configuration for event publishing.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/dawn/traces/traces.jsonl
	FilePath string `mapstructure:"file_path" yaml:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info (default), warn, error
	File  string `mapstructure:"file" yaml:"file"`   // Default: debug.log in the working directory
}

// DefaultConfigDir returns ~/.config/dawn, or .dawn if the home directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dawn"
	}
	return filepath.Join(home, ".config", "dawn")
}

// DefaultTracesFilePath returns the default path for the trace file.
func DefaultTracesFilePath() string {
	return filepath.Join(DefaultConfigDir(), "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Theme: theme.DefaultSettings(),
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 300 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Level: "info",
			File:  "debug.log",
		},
	}
}

// SetDefaults registers every default with v so that partial files still
// unmarshal into a complete Config.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("theme.enable_room_navigation", d.Theme.EnableRoomNavigation)
	v.SetDefault("theme.enable_background_transitions", d.Theme.EnableBackgroundTransitions)
	v.SetDefault("theme.mobile_breakpoint", d.Theme.MobileBreakpoint)
	v.SetDefault("theme.design_mode", d.Theme.DesignMode)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			log.ErrorErr(log.CatConfig, "Failed to read config", err, "path", path)
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Debug(log.CatConfig, "No config file, using defaults", "path", path)
	}

	return Decode(v)
}

// Validate checks the configuration for invalid values.
func Validate(cfg Config) error {
	if cfg.Theme.MobileBreakpoint <= 0 {
		return fmt.Errorf("theme.mobile_breakpoint must be positive, got %d", cfg.Theme.MobileBreakpoint)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

// ValidateTracing checks tracing configuration values.
func ValidateTracing(tracing TracingConfig) error {
	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter %q is not one of none, file, stdout, otlp", tracing.Exporter)
	}
	if tracing.SampleRate < 0 || tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v", tracing.SampleRate)
	}
	if tracing.Enabled && tracing.Exporter == "file" && tracing.FilePath == "" {
		return errors.New("tracing.file_path is required for the file exporter")
	}
	return nil
}
