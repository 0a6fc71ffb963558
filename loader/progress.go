package loader

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports how many pages of a batch have been loaded.
type ProgressTracker struct {
	writer    io.Writer
	total     int
	loaded    int
	failed    int
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// NewProgressTracker creates a tracker for total pages writing to writer
// (typically os.Stderr).
func NewProgressTracker(writer io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{writer: writer, total: total}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.loaded = 0
	p.failed = 0
}

// Done records one finished page and reports.
func (p *ProgressTracker) Done(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.loaded+p.failed >= p.total {
		return
	}

	if err != nil {
		p.failed++
	} else {
		p.loaded++
	}
	p.report()
}

// Finish prints the final line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
	p.started = false
}

// Counts returns the loaded and failed totals so far.
func (p *ProgressTracker) Counts() (loaded, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded, p.failed
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report must be called with lock held.
func (p *ProgressTracker) report() {
	done := p.loaded + p.failed
	percentage := 100.0
	if p.total > 0 {
		percentage = float64(done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rLoading pages: %d/%d (%.0f%%)", done, p.total, percentage)
	if p.failed > 0 {
		fmt.Fprintf(p.writer, ", %d failed", p.failed)
	}
}
