// Package runner launches an external executable as a child process and
// delivers its terminal outcome exactly once.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var errEmptyExecutable = errors.New("empty executable path")

// Runner starts child processes. The zero value waits forever and keeps
// all output.
type Runner struct {
	Dir       string        // child working directory; empty means the current one
	Timeout   time.Duration // 0 disables the timeout
	MaxOutput int           // bytes per stream; 0 disables the cap
	Logger    *log.Logger   // nil means log.Default()
}

// Start launches executable with args and returns immediately. The returned
// channel receives exactly one Outcome once the child terminates, and is
// then closed. Args are passed in order, unmodified.
func (r *Runner) Start(ctx context.Context, executable string, args []string) <-chan Outcome {
	done := make(chan Outcome, 1)
	runID := uuid.New().String()
	logger := r.logger().With("run_id", runID)

	fail := func(err error) <-chan Outcome {
		logger.Debug("start failed", "exe", executable, "err", err)
		done <- Outcome{RunID: runID, Err: &SubprocessError{
			RunID:      runID,
			Executable: executable,
			Args:       args,
			Cause:      CauseStart,
			ExitCode:   -1,
			Err:        err,
		}}
		close(done)
		return done
	}

	if executable == "" {
		return fail(errEmptyExecutable)
	}

	cancel := context.CancelFunc(func() {})
	if r.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
	}

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: r.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: r.MaxOutput}

	logger.Debug("starting", "exe", executable, "args", args, "dir", r.Dir)
	started := time.Now()
	if err := cmd.Start(); err != nil {
		cancel()
		return fail(err)
	}

	go func() {
		defer close(done)
		defer cancel()

		waitErr := cmd.Wait()
		elapsed := time.Since(started)
		truncated := r.MaxOutput > 0 && (stdout.Len() >= r.MaxOutput || stderr.Len() >= r.MaxOutput)

		if waitErr == nil {
			logger.Debug("exited", "code", 0, "elapsed", elapsed)
			done <- Outcome{RunID: runID, Result: &Result{
				RunID:     runID,
				ExitCode:  0,
				Stdout:    stdout.Bytes(),
				Stderr:    stderr.Bytes(),
				Truncated: truncated,
				Duration:  elapsed,
			}}
			return
		}

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err := waitErr
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, waitErr)
		}
		logger.Debug("exited", "code", exitCode, "elapsed", elapsed, "err", err)
		done <- Outcome{RunID: runID, Err: &SubprocessError{
			RunID:      runID,
			Executable: executable,
			Args:       args,
			Cause:      CauseExit,
			ExitCode:   exitCode,
			Stdout:     stdout.Bytes(),
			Stderr:     stderr.Bytes(),
			Err:        err,
		}}
	}()

	return done
}

// Run is the blocking form of Start.
func (r *Runner) Run(ctx context.Context, executable string, args []string) (*Result, error) {
	o := <-r.Start(ctx, executable, args)
	return o.Result, o.Err
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
// A non-positive limit keeps everything.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.limit <= 0 {
		return w.buf.Write(p)
	}
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Report all bytes as consumed to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
