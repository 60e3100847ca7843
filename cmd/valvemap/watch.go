package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/indexer"
	"mercator-hq/valvemap/pkg/server"
	"mercator-hq/valvemap/pkg/source"
	"mercator-hq/valvemap/pkg/telemetry/health"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
	"mercator-hq/valvemap/pkg/watch"
)

var watchFlags struct {
	noInitial bool
	noServer  bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]...",
	Short: "Keep the catalog up to date as map files change",
	Long: `Index the watched paths, then re-index map files whenever they are
written, created, renamed or removed. Changes are debounced so an editor
saving a map in several writes triggers one re-index.

When source.git is enabled the repository is pulled first and its map
directory is watched instead of watch.paths; with source.git.poll.enabled it
is pulled again every source.git.poll.interval and changed maps re-indexed.

When watch.rescan_schedule is set, a full rescan also runs on that cron
schedule to pick up changes fsnotify missed (network shares, for example).

Unless server.enabled is false, a status server is started on
server.listen_address with:
  /metrics                    Prometheus metrics
  /healthz, /readyz           liveness and readiness
  /version                    build information
  /api/maps, /api/maps/detail catalog queries
  /api/textures, /api/classnames

Without arguments the configured watch.paths are watched.

Examples:
  # Watch the configured paths
  valvemap watch --config valvemap.yaml

  # Watch one directory without the status server
  valvemap watch maps/ --no-server`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFlags.noInitial, "no-initial-scan", false, "skip indexing the watched paths on startup")
	watchCmd.Flags().BoolVar(&watchFlags.noServer, "no-server", false, "do not start the status server")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := openCatalog(cfg, logger)
	if err != nil {
		return cli.NewInternalError("watch", err)
	}
	defer store.Close()

	tracer, flushTraces, err := newTracer(cfg, logger)
	if err != nil {
		return err
	}
	defer flushTraces()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	repo, paths, err := syncSource(ctx, cfg, args, collector, logger)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return cli.NewConfigError("watch.paths", "no paths to watch")
	}
	cfg.Watch.Paths = paths

	ix := indexer.New(cfg, store, collector, logger).WithTracer(tracer)

	// Watcher batches and scheduled rescans share the catalog; one run at a time.
	var runMu sync.Mutex
	reindex := func(ctx context.Context, trigger string, paths []string) error {
		runMu.Lock()
		defer runMu.Unlock()

		report, err := ix.Run(ctx, trigger, paths)
		if err != nil {
			return err
		}
		if report.Failed > 0 {
			return fmt.Errorf("%d file(s) could not be indexed", report.Failed)
		}
		return nil
	}

	fw, err := watch.New(watch.ConfigFromWatch(cfg.Watch), collector, logger.Slog())
	if err != nil {
		return cli.NewConfigError("watch", err.Error())
	}

	var watching atomic.Bool
	checker := health.New(0)
	checker.Register("catalog", store.Ping)
	checker.Register("watcher", func(context.Context) error {
		if !watching.Load() {
			return errors.New("file watcher is not running")
		}
		return nil
	})
	if repo != nil {
		checker.Register("source", func(context.Context) error {
			_, err := repo.Head()
			return err
		})
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	if cfg.Server.Enabled && !watchFlags.noServer {
		deps := server.Deps{
			Health:  checker,
			Catalog: store,
			Version: health.VersionInfo{
				Version:   Version,
				Commit:    GitCommit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
			},
			Tracer: tracer,
			Logger: logger.Slog(),
		}
		if cfg.Telemetry.Metrics.Enabled {
			deps.Metrics = collector
			deps.MetricsPath = cfg.Telemetry.Metrics.Path
		}
		srv := server.New(&cfg.Server, deps)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	if !watchFlags.noInitial {
		if err := reindex(ctx, indexer.TriggerWatch, cfg.Watch.Paths); err != nil {
			logger.Warn("initial scan incomplete", "error", err)
		}
	}

	scheduler := watch.NewScheduler(cfg.Watch.RescanSchedule, func(ctx context.Context) error {
		return reindex(ctx, indexer.TriggerSchedule, cfg.Watch.Paths)
	}, logger.Slog())
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewConfigError("watch.rescan_schedule", err.Error())
	}
	defer scheduler.Stop()

	if repo != nil && cfg.Source.Git.Poll.Enabled {
		poller := source.NewPoller(repo, cfg.Source.Git.Poll.Interval, logger.Slog())
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := poller.Run(ctx, func(ctx context.Context, result *source.SyncResult) {
				if err := reindex(ctx, indexer.TriggerSource, result.ChangedMaps); err != nil {
					logger.Warn("re-index after pull incomplete", "error", err)
				}
			})
			if err != nil {
				errCh <- err
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		watching.Store(true)
		defer watching.Store(false)

		err := fw.Run(ctx, func(ctx context.Context, paths []string) {
			if err := reindex(ctx, indexer.TriggerWatch, paths); err != nil {
				logger.Warn("re-index incomplete", "error", err)
			}
		})
		if err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		stop()
	}
	wg.Wait()

	if runErr != nil {
		return cli.NewCommandError("watch", runErr)
	}
	logger.Info("shutdown complete")
	return nil
}
