// Package server provides the HTTP status server that "valvemap watch" runs
// next to the file watcher.
//
// # Endpoints
//
//	GET /metrics              Prometheus metrics (path from telemetry.metrics.path)
//	GET /healthz              liveness
//	GET /readyz               readiness; 503 when a registered check fails
//	GET /version              build information
//	GET /api/maps             catalog query: prefix, texture, classname, dialect, failed, limit
//	GET /api/maps/detail      one catalog record: path
//	GET /api/textures         texture usage across the catalog
//	GET /api/classnames       classname usage across the catalog
//
// # Basic Usage
//
//	srv := server.New(&cfg.Server, server.Deps{
//	    Metrics:     collector,
//	    MetricsPath: cfg.Telemetry.Metrics.Path,
//	    Health:      checker,
//	    Catalog:     store,
//	    Logger:      logger,
//	})
//	go srv.Start(ctx) // returns after ctx is cancelled and shutdown completes
//
// Every response carries an X-Request-ID header; a client-supplied value is
// echoed back. Handler panics are logged with a stack trace and answered with
// a JSON 500.
package server
