// Package logging provides structured logging for valvemap.
//
// The logger wraps log/slog with JSON, text and console handlers and
// configurable levels. Index runs put their run ID, trigger and current map
// path in the context; the *Context methods add them to each entry.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	ctx := logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "indexed map", "entities", 42)
//
// Components that accept a *slog.Logger get one from Slog.
package logging
