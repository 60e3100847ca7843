// Package tracing provides OpenTelemetry tracing for index runs and the
// status server.
//
// # Spans
//
// The indexer creates one "index.run" span per run with a child
// "index.file" span per file. File spans carry the map's dialect and
// entity, brush and face counts, lint finding counts, and a "parse_error"
// event when the file did not parse. The status server wraps every request
// in a server span via HTTPMiddleware, continuing any W3C traceparent sent
// by the caller.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    service_name: valvemap
//	    sampler: ratio        # always | never | ratio
//	    sample_ratio: 0.25
//	    endpoint: localhost:4317
//	    otlp:
//	      insecure: true
//	      timeout: 10s
//
// Spans are exported over OTLP gRPC. When tracing is disabled New returns a
// Tracer whose spans do not record, so instrumented code never branches on
// Enabled.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "index.run")
//	defer span.End()
//	tracing.SetRunAttributes(span, runID, "cli", len(paths))
package tracing
