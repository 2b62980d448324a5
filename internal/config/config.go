// Package config loads the optional .wavcall YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/seapub/wavcall/internal/split"
)

// FileName is the name of the config file looked up from the workspace.
const FileName = ".wavcall"

// DefaultExecutable is the splitter binary, relative to the working directory.
const DefaultExecutable = "./splitwavwin"

// Config holds the parsed .wavcall configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version       int          `yaml:"version"`
	RawExecutable string       `yaml:"executable"`
	RawTimeout    string       `yaml:"timeout"`    // e.g. "5m"; empty waits forever
	RawMaxOutput  int          `yaml:"max_output"` // bytes; 0 keeps everything
	RawLogLevel   string       `yaml:"log_level"`  // debug, info, warn, error
	RawHistoryDir string       `yaml:"history_dir"`
	Report        ReportConfig `yaml:"report"`
	Params        ParamsConfig `yaml:"params"`

	// root is the directory the file was found in. Relative paths in the
	// file are resolved against it.
	root string
}

// ReportConfig controls console reporting.
type ReportConfig struct {
	Single bool `yaml:"single"` // print a failure once, on stderr only
}

// ParamsConfig overrides individual splitter parameters. Nil fields keep
// the built-in default.
type ParamsConfig struct {
	Threshold   *float64 `yaml:"threshold"`
	SpanSilence *int64   `yaml:"span_silence"`
	SpanMargin  *int64   `yaml:"span_margin"`
	SpanMin     *int64   `yaml:"span_min"`
	Input       *string  `yaml:"input"`
	OutputDir   *string  `yaml:"output_dir"`
}

// Executable returns the configured splitter path or the default. A
// relative path from the file is anchored at the file's directory; the
// default stays relative to the working directory.
func (c *Config) Executable() string {
	if c.RawExecutable != "" {
		return c.resolve(c.RawExecutable)
	}
	return DefaultExecutable
}

// HistoryDir returns the record store directory, or "" for a temp dir.
func (c *Config) HistoryDir() string {
	if c.RawHistoryDir == "" {
		return ""
	}
	return c.resolve(c.RawHistoryDir)
}

func (c *Config) resolve(path string) string {
	if c.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.root, path)
}

// Timeout returns the configured timeout, or 0 for none. Load rejects
// values that do not parse.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// validate reports fields whose values would otherwise be silently ignored.
func (c *Config) validate() error {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("timeout: negative duration %q", c.RawTimeout)
		}
	}
	if c.RawLogLevel != "" {
		if _, err := log.ParseLevel(c.RawLogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// MaxOutputBytes returns the configured per-stream cap, or 0 for none.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return 0
}

// LogLevel returns the configured log level, falling back to info.
func (c *Config) LogLevel() log.Level {
	if c.RawLogLevel != "" {
		if lvl, err := log.ParseLevel(c.RawLogLevel); err == nil {
			return lvl
		}
	}
	return log.InfoLevel
}

// SplitParams merges the configured overrides over split.Defaults.
func (c *Config) SplitParams() split.Params {
	p := split.Defaults()
	o := c.Params
	if o.Threshold != nil {
		p.Threshold = *o.Threshold
	}
	if o.SpanSilence != nil {
		p.SpanSilence = *o.SpanSilence
	}
	if o.SpanMargin != nil {
		p.SpanMargin = *o.SpanMargin
	}
	if o.SpanMin != nil {
		p.SpanMin = *o.SpanMin
	}
	if o.Input != nil {
		p.Input = *o.Input
	}
	if o.OutputDir != nil {
		p.OutputDir = *o.OutputDir
	}
	return p
}

// LoadResult holds the parsed config and the directory it was found in.
type LoadResult struct {
	Config *Config
	Root   string // directory holding .wavcall or go.mod; falls back to workspace
	Path   string // config file path; empty when none was read
}

// Load reads the .wavcall file. The root is discovered by walking upward
// from workspace to the first directory holding .wavcall or go.mod.
// If no .wavcall file exists, a default Config is returned.
func Load(workspace string) (*LoadResult, error) {
	root, err := findRoot(workspace)
	if err != nil {
		root = workspace
	}

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: &Config{}, Root: root}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{root: root}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &LoadResult{Config: cfg, Root: root, Path: path}, nil
}

// findRoot walks upward from dir looking for .wavcall or go.mod.
func findRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", FileName)
		}
		dir = parent
	}
}
