package runner

import (
	"errors"
	"fmt"
	"time"
)

// Result holds the output of a successful invocation.
type Result struct {
	RunID     string        // unique identifier for this run
	ExitCode  int           // process exit code, always 0 on success
	Stdout    []byte        // captured stdout (may be truncated)
	Stderr    []byte        // captured stderr (may be truncated)
	Truncated bool          // true if output exceeded the size cap
	Duration  time.Duration // wall time from start to exit
}

// Outcome is the terminal state of one invocation. Exactly one of Result
// and Err is set.
type Outcome struct {
	RunID  string
	Result *Result
	Err    error
}

// OK reports whether the invocation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// Output returns the captured stdout as text. It is empty on failure.
func (o Outcome) Output() string {
	if !o.OK() {
		return ""
	}
	return string(o.Result.Stdout)
}

// Cause tells apart the two ways an invocation fails.
type Cause int

const (
	// CauseStart means the executable could not be launched.
	CauseStart Cause = iota
	// CauseExit means the executable ran and exited with a failure status.
	CauseExit
)

func (c Cause) String() string {
	switch c {
	case CauseStart:
		return "start"
	case CauseExit:
		return "exit"
	default:
		return fmt.Sprintf("Cause(%d)", int(c))
	}
}

// SubprocessError is the single error kind produced by the runner.
type SubprocessError struct {
	RunID      string
	Executable string
	Args       []string
	Cause      Cause
	ExitCode   int    // -1 when the process never ran or was killed
	Stdout     []byte // whatever the child wrote before failing
	Stderr     []byte
	Err        error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Executable, e.Err)
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// IsStartFailure reports whether err is a SubprocessError raised before
// the child could run.
func IsStartFailure(err error) bool {
	var se *SubprocessError
	return errors.As(err, &se) && se.Cause == CauseStart
}

// IsExitFailure reports whether err is a SubprocessError for a child that
// exited with a failure status.
func IsExitFailure(err error) bool {
	var se *SubprocessError
	return errors.As(err, &se) && se.Cause == CauseExit
}
