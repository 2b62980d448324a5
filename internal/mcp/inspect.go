package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seapub/wavcall/internal/report"
)

// recentLimit caps the run listing returned when no run_id is given.
const recentLimit = 10

type inspectParams struct {
	RunID string `json:"run_id,omitempty" jsonschema:"the run ID from a wavcall_split result; omit to list recent runs"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return h.listRecent()
	}

	rec, err := h.engine.Inspect(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}
	return textResult(formatRecord(rec, true))
}

func (h *handler) listRecent() (*mcp.CallToolResult, any, error) {
	recs := h.engine.Recent(recentLimit)
	if len(recs) == 0 {
		return textResult("No runs recorded yet.")
	}

	var b strings.Builder
	fmt.Fprintln(&b, "Recent runs (newest first):")
	for _, rec := range recs {
		status := "SUCCESS"
		if rec.Status == report.Failure {
			status = fmt.Sprintf("FAILURE (%s)", rec.Cause)
		}
		fmt.Fprintf(&b, "- %s  %s  %s\n", rec.ID, rec.StartedAt.Format("15:04:05"), status)
	}
	return textResult(b.String())
}
