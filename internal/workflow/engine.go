// Package workflow ties a split request to the runner and the record
// store. It is consumed by both the MCP server and the CLI.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/seapub/wavcall/internal/report"
	"github.com/seapub/wavcall/internal/runner"
	"github.com/seapub/wavcall/internal/split"
)

// CommandRunner starts a child process and resolves it exactly once.
// Implemented by runner.Runner.
type CommandRunner interface {
	Start(ctx context.Context, executable string, args []string) <-chan runner.Outcome
}

// Engine holds shared dependencies for invocations.
type Engine struct {
	Runner     CommandRunner
	Store      report.Store // may be nil
	Executable string
	Logger     *log.Logger // nil means log.Default()
}

// Split invokes the splitter with p and waits for its single outcome.
// The record is saved before returning; a failed save is only logged.
func (e *Engine) Split(ctx context.Context, p split.Params) (*report.Record, runner.Outcome) {
	args := p.Args()
	started := time.Now()

	o, ok := <-e.Runner.Start(ctx, e.Executable, args)
	if !ok {
		// A conforming runner never closes without sending.
		o = runner.Outcome{Err: &runner.SubprocessError{
			Executable: e.Executable,
			Args:       args,
			Cause:      runner.CauseStart,
			ExitCode:   -1,
			Err:        errors.New("runner produced no outcome"),
		}}
	}

	rec := report.NewRecord(e.Executable, args, started, o)
	if e.Store != nil && rec.ID != "" {
		if err := e.Store.Save(rec); err != nil {
			e.logger().Warn("saving record", "run_id", rec.ID, "err", err)
		}
	}
	return rec, o
}

// Inspect loads a previously saved record.
func (e *Engine) Inspect(runID string) (*report.Record, error) {
	if e.Store == nil {
		return nil, fmt.Errorf("no record store configured")
	}
	rec, err := e.Store.Load(runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return rec, nil
}

// Recent returns up to n records, newest first. It is empty unless the
// store keeps an ordering (report.Lister).
func (e *Engine) Recent(n int) []*report.Record {
	l, ok := e.Store.(report.Lister)
	if !ok {
		return nil
	}
	return l.Recent(n)
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}
