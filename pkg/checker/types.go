// Package checker runs the parse and bind passes over site log files and
// collects the results of a run.
package checker

import (
	"time"

	"github.com/ccollicutt/sitelog/pkg/binder"
	"github.com/ccollicutt/sitelog/pkg/finding"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// Result is the outcome of checking one document.
type Result struct {
	// Path is the file checked, or the name given to CheckLines.
	Path string

	// ExpectedName is the site name the document was checked against.
	ExpectedName string

	// Log is the parsed and bound document. It is nil when Err is set.
	Log *parser.SiteLog

	// Stats summarizes binding.
	Stats binder.Stats

	// Err is set when the file could not be read.
	Err error

	// Duration is how long the check took.
	Duration time.Duration
}

// Valid reports whether the document was read and carries no Error
// findings.
func (r *Result) Valid() bool {
	return r.Err == nil && r.Log != nil && r.Log.IsValid()
}

// Findings returns the document's findings in line order.
func (r *Result) Findings() []finding.Finding {
	if r.Log == nil {
		return nil
	}
	return r.Log.Findings.All()
}

// Count returns the number of findings at level.
func (r *Result) Count(level finding.Level) int {
	if r.Log == nil {
		return 0
	}
	return r.Log.Findings.Count(level)
}

// Run is the outcome of checking a set of files.
type Run struct {
	// Results are in the order the paths were given.
	Results []*Result

	StartTime time.Time
	EndTime   time.Time
}

// Invalid returns how many documents failed to read or carry errors.
func (r *Run) Invalid() int {
	n := 0
	for _, res := range r.Results {
		if !res.Valid() {
			n++
		}
	}
	return n
}

// Count returns the number of findings at level across every document.
func (r *Run) Count(level finding.Level) int {
	n := 0
	for _, res := range r.Results {
		n += res.Count(level)
	}
	return n
}
