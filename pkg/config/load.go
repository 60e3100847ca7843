package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "VALVEMAP_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded over Default(), then defaults are applied to any field
// the file zeroed and the result is validated. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention VALVEMAP_SECTION_FIELD (e.g., VALVEMAP_CATALOG_PATH).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from Default().
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Parser overrides
	envInt64(&cfg.Parser.MaxFileSize, "PARSER_MAX_FILE_SIZE")
	envBool(&cfg.Parser.StripEditorKeys, "PARSER_STRIP_EDITOR_KEYS")

	// Lint overrides
	envBool(&cfg.Lint.Enabled, "LINT_ENABLED")
	envBool(&cfg.Lint.Strict, "LINT_STRICT")

	// Watch overrides
	envList(&cfg.Watch.Paths, "WATCH_PATHS")
	envList(&cfg.Watch.Extensions, "WATCH_EXTENSIONS")
	envBool(&cfg.Watch.Recursive, "WATCH_RECURSIVE")
	envDuration(&cfg.Watch.Debounce, "WATCH_DEBOUNCE")
	envString(&cfg.Watch.RescanSchedule, "WATCH_RESCAN_SCHEDULE")

	// Catalog overrides
	envString(&cfg.Catalog.Path, "CATALOG_PATH")
	envDuration(&cfg.Catalog.BusyTimeout, "CATALOG_BUSY_TIMEOUT")

	// Git source overrides
	envBool(&cfg.Source.Git.Enabled, "SOURCE_GIT_ENABLED")
	envString(&cfg.Source.Git.Repository, "SOURCE_GIT_REPOSITORY")
	envString(&cfg.Source.Git.Branch, "SOURCE_GIT_BRANCH")
	envString(&cfg.Source.Git.Path, "SOURCE_GIT_PATH")
	envString(&cfg.Source.Git.Auth.Token, "SOURCE_GIT_AUTH_TOKEN")
	envString(&cfg.Source.Git.Clone.LocalPath, "SOURCE_GIT_CLONE_LOCAL_PATH")
	envInt(&cfg.Source.Git.Clone.Depth, "SOURCE_GIT_CLONE_DEPTH")

	// Server overrides
	envBool(&cfg.Server.Enabled, "SERVER_ENABLED")
	envString(&cfg.Server.ListenAddress, "SERVER_LISTEN_ADDRESS")
	envDuration(&cfg.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")

	// Telemetry overrides
	envString(&cfg.Telemetry.Logging.Level, "TELEMETRY_LOGGING_LEVEL")
	envString(&cfg.Telemetry.Logging.Format, "TELEMETRY_LOGGING_FORMAT")
	envBool(&cfg.Telemetry.Logging.AddSource, "TELEMETRY_LOGGING_ADD_SOURCE")
	envBool(&cfg.Telemetry.Metrics.Enabled, "TELEMETRY_METRICS_ENABLED")
	envString(&cfg.Telemetry.Metrics.Path, "TELEMETRY_METRICS_PATH")
	envBool(&cfg.Telemetry.Tracing.Enabled, "TELEMETRY_TRACING_ENABLED")
	envString(&cfg.Telemetry.Tracing.Endpoint, "TELEMETRY_TRACING_ENDPOINT")
	envString(&cfg.Telemetry.Tracing.Sampler, "TELEMETRY_TRACING_SAMPLER")
	envBool(&cfg.Telemetry.Tracing.OTLP.Insecure, "TELEMETRY_TRACING_OTLP_INSECURE")
}

func envString(dst *string, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envBool(dst *bool, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(dst *int, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envInt64(dst *int64, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			*dst = i
		}
	}
}

func envDuration(dst *time.Duration, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// envList reads a comma-separated list, dropping empty elements.
func envList(dst *[]string, name string) {
	val := os.Getenv(EnvPrefix + name)
	if val == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) > 0 {
		*dst = items
	}
}
