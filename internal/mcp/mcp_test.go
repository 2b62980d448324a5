package mcp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seapub/wavcall/internal/report"
	"github.com/seapub/wavcall/internal/runner"
	"github.com/seapub/wavcall/internal/split"
	"github.com/seapub/wavcall/internal/workflow"
)

// fakeSplitter writes a shell script standing in for splitwavwin. It echoes
// its arguments separated by "|" and exits with code.
func fakeSplitter(t *testing.T, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script executable")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "splitwavwin")
	script := "#!/bin/sh\nprintf '%s|' \"$@\"\necho\necho warn >&2\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// setup creates a wavcall MCP server + client over in-memory transports.
func setup(t *testing.T, executable string) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	engine := &workflow.Engine{
		Runner:     &runner.Runner{},
		Store:      report.NewLRUStore(5, report.NewDiskStore(t.TempDir())),
		Executable: executable,
	}
	server := NewServer(engine, split.Defaults())

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func runIDFrom(t *testing.T, text string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "Run: ") {
			return strings.TrimPrefix(line, "Run: ")
		}
	}
	t.Fatalf("no Run ID found in output:\n%s", text)
	return ""
}

// --- wavcall_split ---

func TestSplit_Defaults(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 0))
	res := callTool(t, cs, "wavcall_split", nil)
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Status: SUCCESS") {
		t.Errorf("expected Status: SUCCESS, got:\n%s", text)
	}
	if !strings.Contains(text, "0.000036|800|400|200|HEYTICO.wav|./output|") {
		t.Errorf("expected default argv in output, got:\n%s", text)
	}
}

func TestSplit_Overrides(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 0))
	res := callTool(t, cs, "wavcall_split", map[string]any{
		"threshold":  0.5,
		"span_min":   0,
		"input":      "take.wav",
		"output_dir": "segments",
	})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "0.5|800|400|0|take.wav|segments|") {
		t.Errorf("expected overridden argv in output, got:\n%s", text)
	}
}

func TestSplit_NonZeroExit(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 2))
	res := callTool(t, cs, "wavcall_split", nil)
	text := resultText(res)
	if !res.IsError {
		t.Fatalf("expected IsError for a failing run, got:\n%s", text)
	}
	if !strings.Contains(text, "exit code 2") {
		t.Errorf("expected exit code 2, got:\n%s", text)
	}
}

func TestSplit_MissingExecutable(t *testing.T) {
	cs := setup(t, filepath.Join(t.TempDir(), "splitwavwin"))
	res := callTool(t, cs, "wavcall_split", nil)
	text := resultText(res)
	if !res.IsError {
		t.Fatalf("expected IsError for a missing executable, got:\n%s", text)
	}
	if !strings.Contains(text, "FAILURE (start") {
		t.Errorf("expected a start failure, got:\n%s", text)
	}
}

// --- wavcall_inspect ---

func TestInspect_AfterSplit(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 2))
	runID := runIDFrom(t, resultText(callTool(t, cs, "wavcall_split", nil)))

	res := callTool(t, cs, "wavcall_inspect", map[string]any{"run_id": runID})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error from wavcall_inspect: %s", text)
	}
	if !strings.Contains(text, "Stderr:") || !strings.Contains(text, "warn") {
		t.Errorf("expected stderr block, got:\n%s", text)
	}
	if !strings.Contains(text, "HEYTICO.wav|") {
		t.Errorf("expected failed run stdout, got:\n%s", text)
	}
}

func TestInspect_NoRunIDListsRecent(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 0))
	first := runIDFrom(t, resultText(callTool(t, cs, "wavcall_split", nil)))
	second := runIDFrom(t, resultText(callTool(t, cs, "wavcall_split", nil)))

	res := callTool(t, cs, "wavcall_inspect", nil)
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error from wavcall_inspect: %s", text)
	}
	i, j := strings.Index(text, second), strings.Index(text, first)
	if i < 0 || j < 0 || i > j {
		t.Errorf("want %s listed before %s, got:\n%s", second, first, text)
	}
}

func TestInspect_NoRunsYet(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 0))
	res := callTool(t, cs, "wavcall_inspect", map[string]any{})
	if res.IsError || !strings.Contains(resultText(res), "No runs recorded") {
		t.Errorf("unexpected result: %s", resultText(res))
	}
}

func TestInspect_UnknownRunID(t *testing.T) {
	cs := setup(t, fakeSplitter(t, 0))
	res := callTool(t, cs, "wavcall_inspect", map[string]any{"run_id": "nonexistent"})
	if !res.IsError {
		t.Error("expected IsError for invalid run_id")
	}
}
