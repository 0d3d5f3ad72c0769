// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harness drives pandoc through the target output formats: one
// invocation per format, each writing into a fixed output directory with the
// reference filter on the chain. A failing pandoc invocation is the one
// fatal error class in the system and fails the build.
package harness

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

const pandocBin = "pandoc"

// Target describes one output format: the pandoc writer name, the output
// file extension, and any extra arguments the format needs.
type Target struct {
	Name      string
	Writer    string
	Extension string
	ExtraArgs []string
}

// targets lists the formats the harness knows how to build, in build order.
var targets = []Target{
	{Name: "pdf", Writer: "", Extension: ".pdf"},
	{Name: "latex", Writer: "latex", Extension: ".tex", ExtraArgs: []string{"--standalone"}},
	{Name: "html", Writer: "html", Extension: ".html", ExtraArgs: []string{"--standalone", "--mathjax"}},
	{Name: "epub", Writer: "epub", Extension: ".epub"},
	{Name: "markdown", Writer: "markdown", Extension: ".md", ExtraArgs: []string{"--standalone"}},
	{Name: "json", Writer: "json", Extension: ".json"},
}

// Targets returns the known target names in build order.
func Targets() []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}

// lookupTarget finds a target by name.
func lookupTarget(name string) (Target, bool) {
	for _, t := range targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(name string, args []string, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = osExecutor{}

// Result holds the outcome of a harness run.
type Result struct {
	Built   int
	Skipped int
	Failed  []string
}

// Err returns a build failure covering all failed targets, or nil.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("build failed for: %s", strings.Join(r.Failed, ", "))
}

// Run builds every requested format, printing per-target status to w. It
// stops early only on setup failures (missing pandoc, unknown format,
// unusable output directory); a failing target is recorded and the remaining
// targets still build.
func Run(cfg types.BuildConfig, w io.Writer) (Result, error) {
	return run(cfg, w, defaultExec)
}

func run(cfg types.BuildConfig, w io.Writer, exe executor) (Result, error) {
	var result Result

	if cfg.Source == "" {
		return result, fmt.Errorf("no source document configured")
	}
	if _, err := exe.LookPath(pandocBin); err != nil {
		return result, fmt.Errorf("pandoc not found on PATH: %w", err)
	}

	names := cfg.Formats
	if len(names) == 0 {
		names = Targets()
	}
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "out"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(cfg.Source), filepath.Ext(cfg.Source))
	for _, name := range names {
		t, ok := lookupTarget(name)
		if !ok {
			return result, fmt.Errorf("unknown target format %q (known: %s)",
				name, strings.Join(Targets(), ", "))
		}

		outPath := filepath.Join(outDir, base+t.Extension)
		if !cfg.Force {
			if _, err := os.Stat(outPath); err == nil {
				fmt.Fprintf(w, "skipped: %s (already exists)\n", outPath)
				result.Skipped++
				continue
			}
		}

		args := pandocArgs(cfg, t, outPath)
		if err := exe.Run(pandocBin, args, w); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", t.Name, err)
			result.Failed = append(result.Failed, t.Name)
			continue
		}
		fmt.Fprintf(w, "built:   %s\n", outPath)
		result.Built++
	}

	fmt.Fprintf(w, "\nBuild summary: %d built, %d skipped, %d failed\n",
		result.Built, result.Skipped, len(result.Failed))
	return result, result.Err()
}

// pandocArgs assembles the fixed filter-chain invocation for one target.
func pandocArgs(cfg types.BuildConfig, t Target, outPath string) []string {
	args := []string{cfg.Source}
	if filter := filterPath(cfg); filter != "" {
		args = append(args, "--filter", filter)
	}
	if t.Writer != "" {
		args = append(args, "--to", t.Writer)
	}
	args = append(args, t.ExtraArgs...)
	args = append(args, "-o", outPath)
	return args
}

// filterPath resolves the filter executable for the pandoc chain: the
// configured one, or the running binary.
func filterPath(cfg types.BuildConfig) string {
	if cfg.Filter != "" {
		return cfg.Filter
	}
	self, err := os.Executable()
	if err != nil {
		return ""
	}
	return self
}
