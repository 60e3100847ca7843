package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ProgressReporter reports progress through a known number of items.
type ProgressReporter interface {
	Start(total int)
	Update(current int)
	Finish()
}

// BarProgress renders a single-line progress bar, redrawn in place.
type BarProgress struct {
	mu      sync.Mutex
	label   string
	total   int
	current int
	writer  io.Writer
}

// NewProgressReporter creates a progress bar labelled label that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer, label string) *BarProgress {
	if w == nil {
		w = os.Stderr
	}
	return &BarProgress{
		label:  label,
		writer: w,
	}
}

// Start resets the bar for total items.
func (p *BarProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.render()
}

// Update sets the number of completed items.
func (p *BarProgress) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.render()
}

// Finish completes the bar and ends the line.
func (p *BarProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *BarProgress) render() {
	if p.total == 0 {
		return
	}

	const barWidth = 30
	filled := barWidth * p.current / p.total
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	fmt.Fprintf(p.writer, "\r%s [%s] %d/%d", p.label, bar, p.current, p.total)
}
