package metrics

import (
	"time"

	"mercator-hq/valvemap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// IndexMetrics tracks catalog indexing and file watching.
//
// Metrics:
//   - valvemap_index_files_total: Files processed by outcome
//   - valvemap_index_run_duration_seconds: Duration of index runs by trigger
//   - valvemap_catalog_maps: Maps currently in the catalog
//   - valvemap_watch_events_total: File system events by operation
//   - valvemap_source_syncs_total: Git source clones and pulls by result
type IndexMetrics struct {
	filesTotal       *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	catalogMaps      prometheus.Gauge
	watchEventsTotal *prometheus.CounterVec
	sourceSyncsTotal *prometheus.CounterVec
}

// NewIndexMetrics creates and registers index metrics with the provided registry.
func NewIndexMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *IndexMetrics {
	im := &IndexMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "index_files_total",
				Help:      "Total number of map files processed by the indexer",
			},
			[]string{"outcome"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "index_run_duration_seconds",
				Help:      "Duration of index runs in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"trigger"},
		),

		catalogMaps: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_maps",
				Help:      "Number of maps in the catalog",
			},
		),

		watchEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of file system events seen by the watcher",
			},
			[]string{"op"},
		),

		sourceSyncsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "source_syncs_total",
				Help:      "Total number of Git source syncs by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		im.filesTotal,
		im.runDuration,
		im.catalogMaps,
		im.watchEventsTotal,
		im.sourceSyncsTotal,
	)

	return im
}

// RecordFile records the outcome of indexing one file.
func (im *IndexMetrics) RecordFile(outcome string) {
	im.filesTotal.WithLabelValues(outcome).Inc()
}

// RecordRun records the duration of one index run.
func (im *IndexMetrics) RecordRun(trigger string, duration time.Duration) {
	im.runDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}
