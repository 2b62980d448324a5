// Package mcp provides the wavcall MCP server, exposing the splitter
// invocation and run lookup as tools.
package mcp

import (
	"context"
	_ "embed"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seapub/wavcall"
	"github.com/seapub/wavcall/internal/split"
	"github.com/seapub/wavcall/internal/workflow"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine   *workflow.Engine
	defaults split.Params // base values for omitted tool arguments
}

// NewServer creates an MCP server with all wavcall tools registered.
func NewServer(engine *workflow.Engine, defaults split.Params) *mcp.Server {
	h := &handler{
		engine:   engine,
		defaults: defaults,
	}

	s := mcp.NewServer(&mcp.Implementation{Name: "wavcall", Version: wavcall.Version}, &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	})

	mcp.AddTool(s, &mcp.Tool{
		Name: "wavcall_split",
		Description: `Run the splitwavwin executable on one WAV file and wait for it to exit.

Every argument is optional and falls back to the configured default. Arguments are passed
positionally as: threshold span_silence span_margin span_min input output_dir.
The result is stored for later lookup via wavcall_inspect.`,
	}, h.splitHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "wavcall_inspect",
		Description: "Show the stored record of a previous wavcall_split run: argv, exit code, stdout and stderr. Without run_id, list the most recent runs.",
	}, h.inspectHandler)

	return s
}

// Run serves s over stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, s *mcp.Server) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
