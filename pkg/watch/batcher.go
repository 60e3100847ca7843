package watch

import (
	"sort"
	"sync"
	"time"
)

// Batcher collects changed paths and hands them to a flush function once no
// new path has arrived for the quiet interval. Flushes never overlap and each
// path appears at most once per flush.
type Batcher struct {
	interval time.Duration
	flush    func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool

	flushMu sync.Mutex
}

// NewBatcher creates a batcher that calls flush after interval of quiet.
func NewBatcher(interval time.Duration, flush func(paths []string)) *Batcher {
	return &Batcher{
		interval: interval,
		flush:    flush,
		pending:  make(map[string]struct{}),
	}
}

// Add records path and restarts the quiet interval.
func (b *Batcher) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	b.pending[path] = struct{}{}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.interval, b.fire)
}

// Pending returns the number of paths waiting for the next flush.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Batcher) fire() {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	if b.stopped || len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(b.pending))
	for p := range b.pending {
		paths = append(paths, p)
	}
	b.pending = make(map[string]struct{})
	b.timer = nil
	b.mu.Unlock()

	sort.Strings(paths)
	b.flush(paths)
}

// Stop discards pending paths and waits for a running flush to return.
func (b *Batcher) Stop() {
	b.mu.Lock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = make(map[string]struct{})
	b.mu.Unlock()

	b.flushMu.Lock()
	b.flushMu.Unlock()
}
