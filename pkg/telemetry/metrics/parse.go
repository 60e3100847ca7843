package metrics

import (
	"time"

	"mercator-hq/valvemap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ParseMetrics tracks map parsing and linting.
//
// Metrics:
//   - valvemap_parses_total: Parse attempts by result ("ok" or the error type)
//   - valvemap_parse_duration_seconds: Time spent parsing one file
//   - valvemap_parse_bytes: Size of parsed sources
//   - valvemap_lint_findings_total: Lint findings by severity
type ParseMetrics struct {
	parsesTotal      *prometheus.CounterVec
	parseDuration    prometheus.Histogram
	parseBytes       prometheus.Histogram
	lintFindingTotal *prometheus.CounterVec
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parses_total",
				Help:      "Total number of map parse attempts",
			},
			[]string{"result"},
		),

		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Duration of parsing one map file in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),

		parseBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_bytes",
				Help:      "Size of parsed map sources in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
			},
		),

		lintFindingTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lint_findings_total",
				Help:      "Total number of lint findings",
			},
			[]string{"severity"},
		),
	}

	registry.MustRegister(
		pm.parsesTotal,
		pm.parseDuration,
		pm.parseBytes,
		pm.lintFindingTotal,
	)

	return pm
}

// RecordParse records one parse attempt.
func (pm *ParseMetrics) RecordParse(sizeBytes int, duration time.Duration, errType string) {
	result := errType
	if result == "" {
		result = "ok"
	}
	pm.parsesTotal.WithLabelValues(result).Inc()
	pm.parseDuration.Observe(duration.Seconds())
	pm.parseBytes.Observe(float64(sizeBytes))
}

// RecordLintFindings adds count findings of the given severity.
func (pm *ParseMetrics) RecordLintFindings(severity string, count int) {
	pm.lintFindingTotal.WithLabelValues(severity).Add(float64(count))
}
