package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seapub/wavcall/internal/report"
	"github.com/seapub/wavcall/internal/split"
)

type splitParams struct {
	Threshold   *float64 `json:"threshold,omitempty" jsonschema:"energy threshold separating silence from signal (e.g. 0.000036)"`
	SpanSilence *int64   `json:"span_silence,omitempty" jsonschema:"milliseconds of silence that end a segment (e.g. 800)"`
	SpanMargin  *int64   `json:"span_margin,omitempty" jsonschema:"milliseconds of padding kept around each segment (e.g. 400)"`
	SpanMin     *int64   `json:"span_min,omitempty" jsonschema:"segments shorter than this many milliseconds are dropped (e.g. 200)"`
	Input       string   `json:"input,omitempty" jsonschema:"path of the .wav file to split, relative to the working directory"`
	OutputDir   string   `json:"output_dir,omitempty" jsonschema:"directory receiving the segments"`
}

// apply overlays the supplied arguments on base.
func (sp splitParams) apply(base split.Params) split.Params {
	if sp.Threshold != nil {
		base.Threshold = *sp.Threshold
	}
	if sp.SpanSilence != nil {
		base.SpanSilence = *sp.SpanSilence
	}
	if sp.SpanMargin != nil {
		base.SpanMargin = *sp.SpanMargin
	}
	if sp.SpanMin != nil {
		base.SpanMin = *sp.SpanMin
	}
	if sp.Input != "" {
		base.Input = sp.Input
	}
	if sp.OutputDir != "" {
		base.OutputDir = sp.OutputDir
	}
	return base
}

func (h *handler) splitHandler(ctx context.Context, req *mcp.CallToolRequest, params splitParams) (*mcp.CallToolResult, any, error) {
	rec, o := h.engine.Split(ctx, params.apply(h.defaults))
	text := formatRecord(rec, false)
	if !o.OK() {
		return errorResult(text)
	}
	return textResult(text)
}

// formatRecord renders rec for a tool result. verbose adds stderr and the
// stdout of failed runs.
func formatRecord(rec *report.Record, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", rec.ID)
	fmt.Fprintf(&b, "Command: %s\n", rec.CommandLine())
	if rec.Status == report.Success {
		fmt.Fprintf(&b, "Status: SUCCESS (%s)\n", rec.Duration)
	} else {
		fmt.Fprintf(&b, "Status: FAILURE (%s, exit code %d)\n", rec.Cause, rec.ExitCode)
		fmt.Fprintf(&b, "Error: %s\n", rec.Error)
	}
	if rec.Truncated {
		fmt.Fprintln(&b, "Output was truncated.")
	}

	if rec.Status == report.Success || verbose {
		writeBlock(&b, "Output", rec.Stdout)
	}
	if verbose {
		writeBlock(&b, "Stderr", rec.Stderr)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintln(b)
	fmt.Fprintf(b, "%s:\n", title)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
}
