package migrate

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Failure is one file that could not be moved.
type Failure struct {
	File  string
	Cause error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.File, f.Cause)
}

// Report is the outcome of one migration.
type Report struct {
	ID          string
	Source      string
	Destination string
	Moved       []string
	Failures    []Failure
	Bytes       int64
	// Committed is set by Relocate when download-folder was updated.
	Committed bool
}

// MovedCount returns the number of files now at the destination.
func (r *Report) MovedCount() int { return len(r.Moved) }

// Err joins every failure, or returns nil.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return stderrors.Join(errs...)
}

// Summary renders a one-paragraph description for logs and dialogs.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "moved %d file(s) (%s) from %s to %s",
		len(r.Moved), humanize.Bytes(uint64(r.Bytes)), r.Source, r.Destination)
	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, "; %d failed:", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "\n  %s: %v", f.File, f.Cause)
		}
	}
	if r.Committed {
		b.WriteString("\nfolder updated")
	} else {
		b.WriteString("\nfolder unchanged")
	}
	return b.String()
}
