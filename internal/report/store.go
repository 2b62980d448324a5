// Package report persists invocation records so a run can be looked up
// after its outcome has been printed.
package report

import (
	"errors"
	"strings"
	"time"

	"github.com/seapub/wavcall/internal/runner"
)

// Status is the terminal state of an invocation.
type Status string

const (
	// Success means the child exited with status 0.
	Success Status = "success"
	// Failure means the child could not start or exited non-zero.
	Failure Status = "failure"
)

// Store persists and retrieves invocation records.
type Store interface {
	Save(rec *Record) error
	Load(runID string) (*Record, error)
}

// Record is the stored form of one invocation.
type Record struct {
	ID         string        `json:"id"`
	Executable string        `json:"executable"`
	Args       []string      `json:"args"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Status     Status        `json:"status"`
	Cause      string        `json:"cause,omitempty"` // "start" or "exit" on failure
	ExitCode   int           `json:"exit_code"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Error      string        `json:"error,omitempty"`
	Truncated  bool          `json:"truncated,omitempty"`
}

// NewRecord builds a Record from a terminal outcome.
func NewRecord(executable string, args []string, startedAt time.Time, o runner.Outcome) *Record {
	rec := &Record{
		ID:         o.RunID,
		Executable: executable,
		Args:       args,
		StartedAt:  startedAt,
	}
	if o.OK() {
		rec.Status = Success
		rec.Duration = o.Result.Duration
		rec.ExitCode = o.Result.ExitCode
		rec.Stdout = string(o.Result.Stdout)
		rec.Stderr = string(o.Result.Stderr)
		rec.Truncated = o.Result.Truncated
		return rec
	}

	rec.Status = Failure
	rec.ExitCode = -1
	if o.Err != nil {
		rec.Error = o.Err.Error()
	}
	var se *runner.SubprocessError
	if errors.As(o.Err, &se) {
		rec.Cause = se.Cause.String()
		rec.ExitCode = se.ExitCode
		rec.Stdout = string(se.Stdout)
		rec.Stderr = string(se.Stderr)
	}
	rec.Duration = time.Since(startedAt)
	return rec
}

// CommandLine returns the argv as a single shell-like line.
func (r *Record) CommandLine() string {
	return strings.Join(append([]string{r.Executable}, r.Args...), " ")
}
