// Package indexer parses, lints and records map files in the catalog.
//
// A run takes a list of files and directories. Directories are walked for
// files with a configured extension. Each file is hashed; when the hash
// matches the catalog entry the file is skipped, otherwise it is parsed,
// optionally linted, and its summary is written to the catalog. Files that
// fail to parse are still catalogued with their parse error so they show up
// in failure queries. Catalog entries whose file has disappeared are removed.
//
// Basic usage:
//
//	store, _ := catalog.Open(cfg.Catalog, logger.Slog())
//	ix := indexer.New(cfg, store, collector, logger)
//	report, err := ix.Run(ctx, indexer.TriggerCLI, []string{"maps"})
package indexer
