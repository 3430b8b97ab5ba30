// Package config provides configuration types and defaults for registrar.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/registrar/internal/log"
)

// Config holds all configuration options for registrar.
type Config struct {
	// DataFile is the snapshot file, or a directory containing .registrar/.
	// Default: ./.registrar/registry.json
	DataFile string `mapstructure:"data_file"`

	// Storage selects the snapshot backend.
	// Options: "auto" (by file extension), "json", "yaml", "sqlite"
	Storage string `mapstructure:"storage"`

	// WatchSnapshot prints a notice in the menu when another process
	// rewrites the snapshot file.
	WatchSnapshot bool `mapstructure:"watch_snapshot"`

	// LogLevel is the lowest level written to the debug log.
	// Options: "debug", "info", "warn", "error"
	LogLevel string `mapstructure:"log_level"`

	Cache   CacheConfig     `mapstructure:"cache"`
	UI      UIConfig        `mapstructure:"ui"`
	Tracing TracingConfig   `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// CacheConfig holds read-cache settings for derived views.
type CacheConfig struct {
	// TTL bounds how long a cached view survives without a mutation.
	// Zero disables the cache.
	TTL time.Duration `mapstructure:"ttl"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Color  bool `mapstructure:"color"`  // Styled tables in list output
	Tables bool `mapstructure:"tables"` // Table layout instead of one line per entity
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/registrar/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/registrar/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "registrar", "traces", "traces.jsonl")
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateStorage(cfg.Storage); err != nil {
		return err
	}
	if err := ValidateCache(cfg.Cache); err != nil {
		return err
	}
	if err := ValidateLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateLogLevel checks the debug log level name. Empty means debug.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("log_level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", level)
	}
}

// ValidateStorage checks the storage backend name. Empty means auto.
func ValidateStorage(storage string) error {
	switch storage {
	case "", "auto", "json", "yaml", "sqlite":
		return nil
	default:
		return fmt.Errorf("storage must be \"auto\", \"json\", \"yaml\", or \"sqlite\", got %q", storage)
	}
}

// ValidateCache checks cache configuration for errors.
func ValidateCache(cache CacheConfig) error {
	if cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cache.TTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DataFile:      "",
		Storage:       "auto",
		WatchSnapshot: true,
		LogLevel:      "debug",
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		UI: UIConfig{
			Color:  true,
			Tables: false,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Flags: map[string]bool{},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Registrar Configuration

# Snapshot file (default: ./.registrar/registry.json)
# A directory may be given; its .registrar/registry.json is used.
# data_file: /path/to/registry.json

# Snapshot backend: auto (by extension), json, yaml, sqlite
#   .json            -> json
#   .yaml / .yml     -> yaml
#   .db / .sqlite    -> sqlite
storage: auto

# Show a notice in the interactive menu when another process saves the snapshot
watch_snapshot: true

# Lowest level written to the debug log (--debug): debug, info, warn, error
log_level: debug

# Read cache for derived views (courses of a student, students of a course)
cache:
  ttl: 5m   # 0 disables caching

# Output settings
ui:
  color: true     # Styled tables
  tables: false   # Table layout for list output

# Feature flags
# flags:
#   autosave: true   # Save after every change made in the interactive menu

# Distributed tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/registrar/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
