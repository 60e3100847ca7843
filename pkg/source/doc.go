// Package source keeps a local clone of a Git repository of map files.
//
// Studios often keep levels in a Git repository rather than on a shared
// drive. Repository clones the configured branch with go-git, pulls new
// commits and reports which map files they touched, so the indexer only
// re-reads what changed. Poller pulls on an interval while "valvemap watch"
// is running.
//
// Basic usage:
//
//	repo, err := source.NewRepository(&cfg.Source.Git, cfg.Watch.Extensions, logger)
//	if err != nil {
//	    return err
//	}
//	if _, err := repo.Sync(ctx); err != nil {
//	    return err
//	}
//	report, err := ix.Run(ctx, indexer.TriggerCLI, []string{repo.MapPath()})
//
// Authentication supports HTTPS tokens, SSH keys and anonymous access.
package source
