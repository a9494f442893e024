// Package doctor provides environment health checks for heapherd: are the
// JDK tools present, can the output location be written, is stale state
// lying around. `heapherd doctor` runs all of them; `heapherd run` runs the
// required subset before doing any work.
package doctor

import (
	"time"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// StatusOK indicates the check passed.
	StatusOK CheckStatus = iota
	// StatusWarning indicates a non-critical issue.
	StatusWarning
	// StatusError indicates a critical problem.
	StatusError
)

// String returns a human-readable status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CheckContext provides the directories checks operate against.
type CheckContext struct {
	ProgramsDir string
	OutputDir   string
}

// CheckResult represents the outcome of a health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	FixHint string
}

// Check defines the interface for a health check.
type Check interface {
	// Name returns the check identifier.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Required reports whether a failure must abort a capture run.
	Required() bool

	// Run executes the check and returns a result.
	Run(ctx *CheckContext) *CheckResult
}

// BaseCheck provides shared fields for checks.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
	CheckRequired    bool
}

// Name returns the check name.
func (b *BaseCheck) Name() string {
	return b.CheckName
}

// Description returns the check description.
func (b *BaseCheck) Description() string {
	return b.CheckDescription
}

// Required reports whether this check gates a run.
func (b *BaseCheck) Required() bool {
	return b.CheckRequired
}

// Report contains all check results and a summary.
type Report struct {
	Timestamp time.Time
	Checks    []*CheckResult
	Errors    int
	Warnings  int
}

// NewReport creates an empty report with the current timestamp.
func NewReport() *Report {
	return &Report{Timestamp: time.Now()}
}

// Add appends a check result and updates the counters.
func (r *Report) Add(result *CheckResult) {
	r.Checks = append(r.Checks, result)
	switch result.Status {
	case StatusWarning:
		r.Warnings++
	case StatusError:
		r.Errors++
	}
}

// HasErrors returns true if any check reported an error.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}
