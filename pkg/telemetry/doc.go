// Package telemetry groups the observability packages used by valvemap.
//
// # Components
//
//   - logging: structured logging on log/slog
//   - metrics: Prometheus collectors for parsing, linting, indexing and
//     file watching
//   - tracing: OpenTelemetry spans for index runs and status server requests
//   - health: liveness and readiness checks served by the status server
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
// The library packages under pkg/mapfile never log, record metrics or
// create spans; the indexer and the commands do.
package telemetry
