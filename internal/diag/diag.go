// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diag reports filter diagnostics on stderr. Pandoc shows a filter's
// stderr to the user, so warnings stay on one line each and carry the
// program name.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	warnTag  = color.New(color.FgYellow, color.Bold).Sprint("warning:")
	errorTag = color.New(color.FgRed, color.Bold).Sprint("error:")
)

// Reporter writes tagged diagnostics and counts them. The zero value is not
// usable; call New.
type Reporter struct {
	w        io.Writer
	name     string
	warnings int
}

// New returns a Reporter writing to w, prefixing every line with name.
func New(w io.Writer, name string) *Reporter {
	return &Reporter{w: w, name: name}
}

// Default returns a Reporter for the running process, writing to stderr.
func Default(name string) *Reporter {
	return New(os.Stderr, name)
}

// Warnf reports a non-fatal condition.
func (r *Reporter) Warnf(format string, args ...any) {
	r.warnings++
	fmt.Fprintf(r.w, "%s %s %s\n", r.name, warnTag, fmt.Sprintf(format, args...))
}

// Errorf reports a fatal condition. The caller decides whether to abort.
func (r *Reporter) Errorf(format string, args ...any) {
	fmt.Fprintf(r.w, "%s %s %s\n", r.name, errorTag, fmt.Sprintf(format, args...))
}

// Warnings returns the number of warnings reported so far.
func (r *Reporter) Warnings() int {
	return r.warnings
}
