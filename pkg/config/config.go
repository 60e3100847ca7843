package config

import "time"

// Config is the root configuration structure for valvemap.
// It contains the parser limits, lint policy, watch, catalog and Git source
// settings, the status server and telemetry.
type Config struct {
	// Parser contains settings passed to every map parser the tool creates.
	Parser ParserConfig `yaml:"parser"`

	// Lint controls which lint findings fail a run.
	Lint LintConfig `yaml:"lint"`

	// Watch contains the directories and schedule used by "valvemap watch".
	Watch WatchConfig `yaml:"watch"`

	// Catalog contains the SQLite catalog location and connection settings.
	Catalog CatalogConfig `yaml:"catalog"`

	// Source contains optional remote map sources synced before indexing.
	Source SourceConfig `yaml:"source"`

	// Server contains the HTTP status server run by "valvemap watch".
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ParserConfig contains map parser settings.
type ParserConfig struct {
	// MaxFileSize is the largest map file, in bytes, the parser will read.
	// Default: 67108864 (64MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// StripEditorKeys drops TrenchBroom "_tb_*" bookkeeping properties
	// from parsed entities.
	// Default: false
	StripEditorKeys bool `yaml:"strip_editor_keys"`
}

// LintConfig contains lint settings.
type LintConfig struct {
	// Enabled runs the lint passes after parsing when indexing.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Strict treats lint warnings as errors.
	// Default: false
	Strict bool `yaml:"strict"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	// Paths are the directories (or single files) to watch.
	// Default: ["maps"]
	Paths []string `yaml:"paths"`

	// Extensions are the file extensions that trigger re-indexing.
	// Default: [".map"]
	Extensions []string `yaml:"extensions"`

	// Recursive also watches subdirectories of each path.
	// Default: true
	Recursive bool `yaml:"recursive"`

	// Debounce is how long to wait for writes to settle before re-indexing.
	// Editors typically write a map in several chunks.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// RescanSchedule is an optional cron expression (standard 5-field
	// format) for periodic full rescans. Empty disables rescans.
	// Example: "*/15 * * * *"
	RescanSchedule string `yaml:"rescan_schedule"`
}

// CatalogConfig contains SQLite catalog settings.
type CatalogConfig struct {
	// Path is the SQLite database file. ":memory:" keeps the catalog in memory.
	// Default: "data/catalog.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// SourceConfig contains remote map sources.
type SourceConfig struct {
	// Git syncs maps from a Git repository.
	Git GitSourceConfig `yaml:"git"`
}

// GitSourceConfig configures a Git repository of map files. When enabled,
// "valvemap index" and "valvemap watch" clone or pull the repository and
// index its map directory instead of watch.paths.
type GitSourceConfig struct {
	// Enabled determines if the Git source is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Repository URL (HTTPS, SSH or a local path).
	// Example: "https://github.com/studio/maps.git"
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path within the repository that holds map files.
	// Example: "maps/"
	// Default: "" (repository root)
	Path string `yaml:"path"`

	// Auth configures Git authentication.
	Auth GitAuthConfig `yaml:"auth"`

	// Poll configures change detection while watching.
	Poll GitPollConfig `yaml:"poll"`

	// Clone configures repository cloning.
	Clone GitCloneConfig `yaml:"clone"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "token", "ssh", "none"
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication.
	// Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication.
	// Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// GitPollConfig configures change detection.
type GitPollConfig struct {
	// Enabled pulls the repository periodically during "valvemap watch".
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Interval between pulls.
	// Default: 1m
	Interval time.Duration `yaml:"interval"`

	// Timeout for each clone or pull.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// GitCloneConfig configures repository cloning.
type GitCloneConfig struct {
	// Depth for shallow clones (0 = full clone).
	// Default: 1
	Depth int `yaml:"depth"`

	// LocalPath where the repository is cloned.
	// Default: "data/source"
	LocalPath string `yaml:"local_path"`

	// CleanOnStart removes the local clone before cloning again.
	// Default: false
	CleanOnStart bool `yaml:"clean_on_start"`
}

// ServerConfig contains settings for the HTTP status server, which serves
// metrics, health probes and read-only catalog queries while watching.
type ServerConfig struct {
	// Enabled starts the server with "valvemap watch".
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address to bind to.
	// Format: "host:port"
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "valvemap"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry tracing configuration. Index runs,
// per-file indexing and status server requests are traced.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is the service.name resource attribute.
	// Default: "valvemap"
	ServiceName string `yaml:"service_name"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// OTLP contains OTLP exporter settings.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter settings.
type OTLPConfig struct {
	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
