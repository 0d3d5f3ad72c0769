// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter composes the reference-resolution passes into the single
// transform pandoc runs between its parse and render steps: repair broken
// references, scan each element kind for labels, convert matching citations
// to reference tokens, rewrite the tokens for the output format, and join
// the strings back the way pandoc emits them.
package filter

import (
	"errors"

	"github.com/alexstoick/pandoc-xnos/internal/diag"
	"github.com/alexstoick/pandoc-xnos/internal/filterio"
	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/refs"
	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

// metaCleveref is the metadata variable toggling clever referencing from
// inside the document.
const metaCleveref = "xnos-cleveref"

// Apply transforms doc in place for the given output format. Unresolved
// references and malformed metadata are reported through rep and never abort
// the run.
func Apply(doc *filterio.Document, format string, cfg types.FilterConfig, rep *diag.Reporter) error {
	version, err := filterio.DetectVersion(cfg.PandocVersion)
	if err != nil {
		return err
	}

	cleveref := cfg.Cleveref
	if raw, err := ast.GetMeta(doc.Meta, metaCleveref); err == nil {
		if b, ok := raw.(bool); ok {
			cleveref = b
		} else {
			rep.Warnf("metadata variable %q is not a boolean; ignoring", metaCleveref)
		}
	} else if _, present := doc.Meta[metaCleveref]; present {
		rep.Warnf("could not read metadata variable %q: %v", metaCleveref, err)
	}

	v := refs.Repair(any(doc.Blocks), version.LinkHasAttr())

	for _, kind := range cfg.ActiveKinds() {
		table := refs.Scan(v, kind.Prefix, rep.Warnf)
		v = refs.Use(v, kind.Prefix, table)
		v = refs.Replace(v, table, refs.Options{
			Format:   format,
			Cleveref: cleveref,
			Target:   kind.Target,
			PlusName: kind.PlusName,
			StarName: kind.StarName,
		}, rep.Warnf)
	}

	v = ast.JoinDocStrings(v, format, doc.Meta)

	blocks, ok := v.([]any)
	if !ok {
		return errors.New("filter passes did not return a block list")
	}
	doc.Blocks = blocks
	return nil
}
