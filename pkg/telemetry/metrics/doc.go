// Package metrics provides Prometheus metrics for valvemap.
//
// # Metrics Categories
//
//   - Parse Metrics: parse attempts by result, parse duration and source size,
//     lint findings by severity
//   - Index Metrics: files processed by outcome, index run duration by
//     trigger, catalog size, watcher events
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordParse(len(src), time.Since(start), "")
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package metrics
