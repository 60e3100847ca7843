package config

import "time"

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultMaxFileSize     = int64(64 * 1024 * 1024)
	DefaultStripEditorKeys = false

	// Lint defaults
	DefaultLintEnabled = true
	DefaultLintStrict  = false

	// Watch defaults
	DefaultWatchPath      = "maps"
	DefaultWatchExtension = ".map"
	DefaultWatchRecursive = true
	DefaultWatchDebounce  = 200 * time.Millisecond

	// Catalog defaults
	DefaultCatalogPath        = "data/catalog.db"
	DefaultCatalogBusyTimeout = 5 * time.Second

	// Git source defaults
	DefaultGitBranch       = "main"
	DefaultGitAuthType     = "none"
	DefaultGitPollEnabled  = true
	DefaultGitPollInterval = time.Minute
	DefaultGitPollTimeout  = 30 * time.Second
	DefaultGitCloneDepth   = 1
	DefaultGitLocalPath    = "data/source"

	// Server defaults
	DefaultServerEnabled         = true
	DefaultServerListenAddress   = "127.0.0.1:9464"
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "valvemap"
	DefaultPrometheusPath   = "/metrics"

	// Tracing defaults
	DefaultTracingServiceName = "valvemap"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultOTLPTimeout        = 10 * time.Second
)

// Default returns a configuration with every field set to its default.
// It is the starting point when no configuration file is given, and the
// base that YAML files are decoded onto so omitted booleans keep their
// defaults.
func Default() *Config {
	cfg := &Config{
		Parser: ParserConfig{
			StripEditorKeys: DefaultStripEditorKeys,
		},
		Lint: LintConfig{
			Enabled: DefaultLintEnabled,
			Strict:  DefaultLintStrict,
		},
		Watch: WatchConfig{
			Recursive: DefaultWatchRecursive,
		},
		Source: SourceConfig{
			Git: GitSourceConfig{
				Poll:  GitPollConfig{Enabled: DefaultGitPollEnabled},
				Clone: GitCloneConfig{Depth: DefaultGitCloneDepth},
			},
		},
		Server: ServerConfig{
			Enabled: DefaultServerEnabled,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = DefaultMaxFileSize
	}

	// Watch defaults
	if len(cfg.Watch.Paths) == 0 {
		cfg.Watch.Paths = []string{DefaultWatchPath}
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{DefaultWatchExtension}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	// Catalog defaults
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Catalog.BusyTimeout == 0 {
		cfg.Catalog.BusyTimeout = DefaultCatalogBusyTimeout
	}

	// Git source defaults
	git := &cfg.Source.Git
	if git.Branch == "" {
		git.Branch = DefaultGitBranch
	}
	if git.Auth.Type == "" {
		git.Auth.Type = DefaultGitAuthType
	}
	if git.Poll.Interval == 0 {
		git.Poll.Interval = DefaultGitPollInterval
	}
	if git.Poll.Timeout == 0 {
		git.Poll.Timeout = DefaultGitPollTimeout
	}
	if git.Clone.LocalPath == "" {
		git.Clone.LocalPath = DefaultGitLocalPath
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultServerListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler != "ratio" {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
