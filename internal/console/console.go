// Package console prints the outcome of an invocation.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/seapub/wavcall/internal/runner"
)

// Reporter writes outcomes the way the original caller script did: a
// failure goes to both streams, a success prints the child's output.
type Reporter struct {
	Stdout io.Writer
	Stderr io.Writer
	// Single drops the stdout copy of the error line.
	Single bool
}

// NewReporter returns a Reporter writing to stdout and stderr. Nil writers
// fall back to the process streams.
func NewReporter(stdout, stderr io.Writer, single bool) *Reporter {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Reporter{Stdout: stdout, Stderr: stderr, Single: single}
}

// Report prints o and returns o.Err so callers can pick an exit status.
func (r *Reporter) Report(o runner.Outcome) error {
	if o.Err != nil {
		fmt.Fprintln(r.Stderr, o.Err)
		if !r.Single {
			fmt.Fprintln(r.Stdout, o.Err)
		}
		return o.Err
	}
	fmt.Fprintln(r.Stdout, o.Output())
	return nil
}
