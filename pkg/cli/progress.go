package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress while several inputs are parsed.
type ProgressReporter interface {
	Start(total int)
	Increment(label string)
	Finish()
}

// SimpleProgress is a single-line text progress bar.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int
	current int
	label   string
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a reporter that writes to w (default stderr).
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// Start resets the reporter for total inputs.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.label = ""
	p.started = time.Now()
	p.render()
}

// Increment marks one more input done.
func (p *SimpleProgress) Increment(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.label = label
	p.render()
}

// Finish completes the bar and ends the line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.current = p.total
	p.label = ""
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	const barWidth = 30
	filled := barWidth * p.current / p.total
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	elapsed := time.Since(p.started).Round(time.Millisecond)
	fmt.Fprintf(p.writer, "\rParsing [%s] %d/%d %s %s", bar, p.current, p.total, elapsed, p.label)
}
