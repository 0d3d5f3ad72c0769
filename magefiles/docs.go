//go:build mage

// Package main: document build targets, one per output format. Each target
// builds the filter binary and drives pandoc through it into out/.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// sourceDoc is the document the format targets build. Override with the
// DOC environment variable.
const sourceDoc = "document.md"

// source returns the document to build.
func source() string {
	if doc := os.Getenv("DOC"); doc != "" {
		return doc
	}
	return sourceDoc
}

// runBuild invokes the CLI's build subcommand for the given formats.
func runBuild(formats ...string) error {
	mg.Deps(Build)
	args := []string{"build", source(), "--output-dir", "out", "--force"}
	for _, f := range formats {
		args = append(args, "--formats", f)
	}
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pandoc-xnos build: %w", err)
	}
	return nil
}

// Docs builds every output format.
func Docs() error {
	return runBuild()
}

// Pdf builds the PDF output.
func Pdf() error {
	return runBuild("pdf")
}

// Latex builds the standalone TeX output.
func Latex() error {
	return runBuild("latex")
}

// Html builds the standalone HTML output.
func Html() error {
	return runBuild("html")
}

// Epub builds the EPUB output.
func Epub() error {
	return runBuild("epub")
}

// Markdown builds the normalized markdown output.
func Markdown() error {
	return runBuild("markdown")
}

// Json builds the filtered JSON document tree.
func Json() error {
	return runBuild("json")
}
