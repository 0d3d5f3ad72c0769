// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"strings"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/attr"
)

// Scan walks the document once and collects every labelled element whose
// identifier starts with prefix (for example "fig:") into a fresh Table,
// ordinals assigned 1..N in document order. An empty prefix collects all
// labelled elements. The tree is not modified.
//
// A duplicate label keeps its first ordinal; later occurrences are reported
// through warn and ignored.
func Scan(v any, prefix string, warn WarnFunc) *Table {
	table := NewTable()
	collect := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		label, ok := labelOf(n)
		if !ok || label == "" {
			return nil, false
		}
		if prefix != "" && !strings.HasPrefix(label, prefix) {
			return nil, false
		}
		if _, added := table.Add(label); !added {
			warn.warnf("duplicate label %q: keeping first occurrence", label)
		}
		return nil, false
	}
	ast.Walk(v, collect, "", nil)
	return table
}

// labelOf returns the identifier of a label-bearing element. Headers keep
// their attribute triple in the second content slot; images, spans, divs,
// tables and code blocks keep it in the first.
func labelOf(n *ast.Node) (string, bool) {
	content, ok := n.Content.([]any)
	if !ok {
		return "", false
	}

	var slot int
	switch n.Tag {
	case "Header":
		slot = 1
	case "Image", "Span", "Div", "Table", "CodeBlock", "Code", "Figure":
		slot = 0
	default:
		return "", false
	}
	if slot >= len(content) {
		return "", false
	}

	a, err := attr.FromPandoc(content[slot])
	if err != nil {
		return "", false
	}
	return a.ID, true
}
