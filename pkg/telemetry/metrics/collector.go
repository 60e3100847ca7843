package metrics

import (
	"time"

	"mercator-hq/valvemap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric valvemap records and the registry
// they are registered with. A nil *Collector, or one built from a disabled
// config, accepts every call and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	parseMetrics *ParseMetrics
	indexMetrics *IndexMetrics
}

// NewCollector creates a collector with the specified configuration and
// Prometheus registry. If registry is nil a new one is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "valvemap"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		parseMetrics: NewParseMetrics(cfg, registry),
		indexMetrics: NewIndexMetrics(cfg, registry),
	}
}

// Registry returns the registry the collector's metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordParse records one parse attempt of sizeBytes of source.
// errType is the parse error type, or "" when the parse succeeded.
func (c *Collector) RecordParse(sizeBytes int, duration time.Duration, errType string) {
	if !c.enabled() {
		return
	}
	c.parseMetrics.RecordParse(sizeBytes, duration, errType)
}

// RecordLintFinding records count lint findings of the given severity.
func (c *Collector) RecordLintFinding(severity string, count int) {
	if !c.enabled() || count == 0 {
		return
	}
	c.parseMetrics.RecordLintFindings(severity, count)
}

// RecordIndex records the outcome of indexing one file.
// Outcomes: "indexed", "unchanged", "failed", "removed".
func (c *Collector) RecordIndex(outcome string) {
	if !c.enabled() {
		return
	}
	c.indexMetrics.RecordFile(outcome)
}

// RecordRun records a completed index run started by trigger
// ("cli", "watch", "schedule").
func (c *Collector) RecordRun(trigger string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.indexMetrics.RecordRun(trigger, duration)
}

// SetCatalogSize records the number of maps currently in the catalog.
func (c *Collector) SetCatalogSize(maps int) {
	if !c.enabled() {
		return
	}
	c.indexMetrics.catalogMaps.Set(float64(maps))
}

// RecordWatchEvent records a file system event seen by the watcher.
func (c *Collector) RecordWatchEvent(op string) {
	if !c.enabled() {
		return
	}
	c.indexMetrics.watchEventsTotal.WithLabelValues(op).Inc()
}

// RecordSourceSync records a clone or pull of the Git map source.
// Results: "cloned", "updated", "unchanged", "failed".
func (c *Collector) RecordSourceSync(result string) {
	if !c.enabled() {
		return
	}
	c.indexMetrics.sourceSyncsTotal.WithLabelValues(result).Inc()
}
