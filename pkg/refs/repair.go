// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"regexp"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
)

// refRe matches a reference string reassembled from a broken Link/Str pair:
// an optional brace-and-modifier prefix, the @kind:name reference itself,
// and trailing text.
var refRe = regexp.MustCompile(`^((?:.*\{)?[*+!]?)(@[^:]*:[\w/-]+)(.*)$`)

// Repair reassembles references that pandoc's autolink_bare_uris extension
// splits at the colon into a Link followed by a Str. The pair is replaced
// with the Cite and Str elements a reference normally parses to. Run this
// before Use. linkHasAttr states whether Link elements carry an attribute
// triple in their first slot (pandoc 1.16 and later).
func Repair(v any, linkHasAttr bool) any {
	action := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		if n.Tag == "Para" || n.Tag == "Plain" {
			if run, ok := n.Inlines(); ok {
				n.Content = repairRun(run, linkHasAttr)
			}
		}
		return nil, false
	}
	return ast.Walk(v, action, "", nil)
}

// repairRun rewrites one inline run until no broken pairs remain.
func repairRun(run []any, linkHasAttr bool) []any {
	for {
		i, s := findBrokenRef(run, linkHasAttr)
		if i < 0 {
			return run
		}

		m := refRe.FindStringSubmatch(s)
		prefix, ref, suffix := m[1], m[2], m[3]

		// The broken pair occupies run[i] and run[i+1]; splice in the
		// repaired pieces. Prefix text merges into a preceding Str when one
		// exists, since it may itself end another broken reference.
		var repl []any
		if prefix != "" {
			if i > 0 {
				if prev, ok := run[i-1].(*ast.Node); ok && prev.Tag == "Str" {
					text, _ := prev.Content.(string)
					run[i-1] = ast.Str(text + prefix)
				} else {
					repl = append(repl, ast.Str(prefix))
				}
			} else {
				repl = append(repl, ast.Str(prefix))
			}
		}
		repl = append(repl, ast.Cite([]any{ast.Citation(ref[1:])}, []any{ast.Str(ref)}))
		if suffix != "" {
			repl = append(repl, ast.Str(suffix))
		}

		out := make([]any, 0, len(run)+len(repl)-2)
		out = append(out, run[:i]...)
		out = append(out, repl...)
		out = append(out, run[i+2:]...)
		run = out
	}
}

// findBrokenRef locates a Link immediately followed by a Str whose combined
// text matches refRe. It returns the Link's index and the combined text, or
// -1 when the run is clean.
func findBrokenRef(run []any, linkHasAttr bool) (int, string) {
	for i := 0; i+1 < len(run); i++ {
		link, ok := run[i].(*ast.Node)
		if !ok || link.Tag != "Link" {
			continue
		}
		next, ok := run[i+1].(*ast.Node)
		if !ok || next.Tag != "Str" {
			continue
		}
		head, ok := linkText(link, linkHasAttr)
		if !ok {
			continue
		}
		tail, _ := next.Content.(string)
		if s := head + tail; refRe.MatchString(s) {
			return i, s
		}
	}
	return -1, ""
}

// linkText returns the text of the link's first inline.
func linkText(link *ast.Node, linkHasAttr bool) (string, bool) {
	content, ok := link.Content.([]any)
	if !ok {
		return "", false
	}
	slot := 0
	if linkHasAttr {
		slot = 1
	}
	if slot >= len(content) {
		return "", false
	}
	inlines, ok := content[slot].([]any)
	if !ok || len(inlines) == 0 {
		return "", false
	}
	first, ok := inlines[0].(*ast.Node)
	if !ok || first.Tag != "Str" {
		return "", false
	}
	s, ok := first.Content.(string)
	return s, ok
}
