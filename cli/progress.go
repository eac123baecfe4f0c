package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/grovetools/wallprefs/migrate"
)

// ProgressReporter prints per-file progress of a folder migration.
type ProgressReporter struct {
	mu     sync.Mutex
	out    io.Writer
	start  time.Time
	failed int
}

// NewProgressReporter creates a new progress reporter writing to out
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{
		out:   out,
		start: time.Now(),
	}
}

// Update prints one line for a processed file. It matches the
// migrate.WithProgress callback signature.
func (p *ProgressReporter) Update(pr migrate.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := DefaultTheme
	symbol := t.Success.Render("[*]")
	status := "moved"
	if pr.Err != nil {
		p.failed++
		symbol = t.Error.Render("[x]")
		status = pr.Err.Error()
	}
	fmt.Fprintf(p.out, "%s %s %s: %s\n",
		symbol, t.Muted.Render(fmt.Sprintf("%d/%d", pr.Done, pr.Total)), pr.File, status)
}

// Failed returns how many files failed so far.
func (p *ProgressReporter) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Done prints the report summary and elapsed time.
func (p *ProgressReporter) Done(report *migrate.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start).Round(time.Millisecond)
	if report != nil {
		fmt.Fprintf(p.out, "\n%s\n", report.Summary())
	}
	fmt.Fprintf(p.out, "Operation completed in %s\n", elapsed)
}
