// Command wavcall runs the splitwavwin WAV splitter and reports its outcome.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seapub/wavcall"
	"github.com/seapub/wavcall/internal/config"
	"github.com/seapub/wavcall/internal/console"
	wavmcp "github.com/seapub/wavcall/internal/mcp"
	"github.com/seapub/wavcall/internal/report"
	"github.com/seapub/wavcall/internal/runner"
	"github.com/seapub/wavcall/internal/split"
	"github.com/seapub/wavcall/internal/workflow"
)

// historySize is how many records the MCP server keeps in memory.
const historySize = 16

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "wavcall"})

	cmd := "run"
	if len(args) > 0 {
		switch args[0] {
		case "run", "mcp", "version", "help", "-h", "--help":
			cmd, args = args[0], args[1:]
		}
	}

	switch cmd {
	case "mcp":
		return mcpCmd(args, stdout, stderr, logger)
	case "version":
		fmt.Fprintln(stdout, wavcall.Version)
		return exitOK
	case "help", "-h", "--help":
		usage(stderr)
		return exitOK
	}
	return runCmd(args, stdout, stderr, logger)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: wavcall [run] [flags] [threshold silence margin min input outdir]
       wavcall <command> [flags]

Commands:
  run         Run splitwavwin once and print its output (default)
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "wavcall <command> -h" for command-specific flags.`)
}

// --- run ---

func runCmd(args []string, stdout, stderr io.Writer, logger *log.Logger) int {
	loaded, err := loadConfig(logger)
	if err != nil {
		logger.Error(err)
		return exitFailure
	}
	cfg := loaded.Config
	p := cfg.SplitParams()

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	exe := fs.String("exe", cfg.Executable(), "path of the splitwavwin executable")
	fs.Float64Var(&p.Threshold, "threshold", p.Threshold, "energy threshold")
	fs.Int64Var(&p.SpanSilence, "silence", p.SpanSilence, "silence span in ms")
	fs.Int64Var(&p.SpanMargin, "margin", p.SpanMargin, "margin kept around segments in ms")
	fs.Int64Var(&p.SpanMin, "min", p.SpanMin, "minimum segment length in ms")
	fs.StringVar(&p.Input, "input", p.Input, "input .wav file")
	fs.StringVar(&p.OutputDir, "out", p.OutputDir, "output directory")
	timeoutFlag := fs.Duration("timeout", cfg.Timeout(), "kill splitwavwin after this long (0 waits forever)")
	singleFlag := fs.Bool("single", cfg.Report.Single, "print a failure once, on stderr only")
	verboseFlag := fs.Bool("v", false, "verbose output")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *verboseFlag {
		logger.SetLevel(log.DebugLevel)
	}

	switch fs.NArg() {
	case 0:
	case split.NumArgs:
		if p, err = split.Parse(fs.Args()); err != nil {
			fmt.Fprintf(stderr, "wavcall: %v\n", err)
			return exitUsage
		}
	default:
		fmt.Fprintf(stderr, "wavcall: want 0 or %d positional arguments, got %d\n", split.NumArgs, fs.NArg())
		usage(stderr)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store report.Store
	if dir := cfg.HistoryDir(); dir != "" {
		store = report.NewDiskStore(dir)
	}
	eng := newEngine(cfg, *exe, *timeoutFlag, store, logger)

	logger.Debug("invoking", "exe", *exe, "args", p.String())
	rec, o := eng.Split(ctx, p)
	logger.Debug("finished", "run_id", rec.ID, "status", rec.Status, "duration", rec.Duration)

	if err := console.NewReporter(stdout, stderr, *singleFlag).Report(o); err != nil {
		return exitFailure
	}
	return exitOK
}

// --- mcp ---

func mcpCmd(args []string, stdout, stderr io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *instructions {
		fmt.Fprint(stdout, wavmcp.Instructions)
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := serve(ctx, *httpAddr, logger); err != nil {
		logger.Error(err)
		return exitFailure
	}
	return exitOK
}

func serve(ctx context.Context, httpAddr string, logger *log.Logger) error {
	loaded, err := loadConfig(logger)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	disk := report.NewDiskStore(cfg.HistoryDir())
	dir, err := disk.Dir()
	if err != nil {
		return err
	}
	logger.Info("recording runs", "dir", dir)

	store := report.NewLRUStore(historySize, disk)
	eng := newEngine(cfg, cfg.Executable(), cfg.Timeout(), store, logger)
	server := wavmcp.NewServer(eng, cfg.SplitParams())

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr, logger)
	}
	return wavmcp.Run(ctx, server)
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string, logger *log.Logger) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	logger.Info("listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

func loadConfig(logger *log.Logger) (*config.LoadResult, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.SetLevel(loaded.Config.LogLevel())
	logger.Debug("workspace", "root", loaded.Root, "config", loaded.Path)
	return loaded, nil
}

func newEngine(cfg *config.Config, executable string, timeout time.Duration, store report.Store, logger *log.Logger) *workflow.Engine {
	return &workflow.Engine{
		Runner: &runner.Runner{
			Timeout:   timeout,
			MaxOutput: cfg.MaxOutputBytes(),
			Logger:    logger,
		},
		Store:      store,
		Executable: executable,
		Logger:     logger,
	}
}
