// Package watch detects changes to map files.
//
// Watcher wraps fsnotify: it watches directory trees, filters events by file
// extension and delivers changed paths in debounced batches, so an editor
// saving a map several times in quick succession produces one re-index.
// Scheduler runs a job on a cron schedule, used for periodic full rescans.
package watch
