// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration structures shared by the filter,
// the build harness, and the label index.
package types

// KindConfig describes one class of referenceable element: the label prefix
// that marks it and the words used when rendering references to it.
type KindConfig struct {
	// Prefix is the label prefix including the colon, e.g. "fig:".
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// Target is the LaTeX counter references resolve against ("figure").
	Target string `json:"target" yaml:"target" mapstructure:"target"`

	// PlusName is the abbreviated name used for + references ("fig.").
	PlusName string `json:"plus_name" yaml:"plus_name" mapstructure:"plus_name"`

	// StarName is the capitalized name used for * references ("Figure").
	StarName string `json:"star_name" yaml:"star_name" mapstructure:"star_name"`
}

// DefaultKinds covers the three element classes pandoc documents
// conventionally cross-reference.
func DefaultKinds() []KindConfig {
	return []KindConfig{
		{Prefix: "fig:", Target: "figure", PlusName: "fig.", StarName: "Figure"},
		{Prefix: "eq:", Target: "equation", PlusName: "eq.", StarName: "Equation"},
		{Prefix: "tbl:", Target: "table", PlusName: "table", StarName: "Table"},
	}
}

// FilterConfig holds settings for the filter stage.
type FilterConfig struct {
	// Cleveref turns clever referencing on for references without an
	// explicit modifier.
	Cleveref bool `json:"cleveref" yaml:"cleveref" mapstructure:"cleveref"`

	// PandocVersion overrides pandoc version autodetection.
	PandocVersion string `json:"pandoc_version,omitempty" yaml:"pandoc_version,omitempty" mapstructure:"pandoc_version"`

	// Kinds lists the element classes to number and resolve. Empty means
	// DefaultKinds.
	Kinds []KindConfig `json:"kinds,omitempty" yaml:"kinds,omitempty" mapstructure:"kinds"`
}

// ActiveKinds returns the configured kinds, falling back to the defaults.
func (c FilterConfig) ActiveKinds() []KindConfig {
	if len(c.Kinds) > 0 {
		return c.Kinds
	}
	return DefaultKinds()
}

// BuildConfig holds settings for the build harness.
type BuildConfig struct {
	// Source is the document fed to pandoc.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// OutputDir receives one file per target format.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Formats lists the target formats to build. Empty means all known
	// targets (pdf, latex, html, epub, markdown, json).
	Formats []string `json:"formats,omitempty" yaml:"formats,omitempty" mapstructure:"formats"`

	// Filter is the filter executable passed to pandoc via --filter.
	// Empty means the running binary.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty" mapstructure:"filter"`

	// Force rebuilds targets whose output already exists.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// IndexConfig holds settings for the label index.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database.
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`
}

// Config groups all stage configurations.
type Config struct {
	Filter FilterConfig `json:"filter" yaml:"filter" mapstructure:"filter"`
	Build  BuildConfig  `json:"build" yaml:"build" mapstructure:"build"`
	Index  IndexConfig  `json:"index" yaml:"index" mapstructure:"index"`
}
