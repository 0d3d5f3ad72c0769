// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"strings"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/attr"
)

// Use converts Cite elements that target a cross-reference label into Ref
// tokens for the rewrite pass: citations whose label starts with prefix or
// already appears in table. Matching by prefix keeps references to missing
// labels in play so Replace can flag them. An attribute string following the
// citation is absorbed into the token, a *, + or ! modifier immediately
// before it is stored as the "modifier" attribute, and curly braces wrapping
// the reference are trimmed. Ref tokens are not understood by pandoc;
// Replace consumes them before the document is handed back.
func Use(v any, prefix string, table *Table) any {
	action := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		if n.Tag == "Para" || n.Tag == "Plain" {
			if run, ok := n.Inlines(); ok {
				n.Content = useInRun(run, prefix, table)
			}
		}
		return nil, false
	}
	return ast.Walk(v, action, "", nil)
}

// useInRun rewrites one inline run until every matching citation has become
// a Ref token.
func useInRun(run []any, prefix string, table *Table) []any {
	for {
		i := findCiteRef(run, prefix, table)
		if i < 0 {
			return run
		}
		label, _ := citeLabel(run[i].(*ast.Node))

		a := attr.Attr{}
		if i+1 < len(run) {
			if extracted, rest, err := attr.Extract(run, i+1); err == nil {
				a = extracted
				run = rest
			}
		}

		run, i = trimModifier(run, i, &a)
		run[i] = ast.New("Ref", a.ToPandoc(), label)
		run = trimBraces(run, i)
	}
}

// findCiteRef returns the index of the first Cite element targeting a
// cross-reference label, or -1.
func findCiteRef(run []any, prefix string, table *Table) int {
	for i, item := range run {
		n, ok := item.(*ast.Node)
		if !ok || n.Tag != "Cite" {
			continue
		}
		label, ok := citeLabel(n)
		if !ok {
			continue
		}
		if table.Contains(label) || (prefix != "" && strings.HasPrefix(label, prefix)) {
			return i
		}
	}
	return -1
}

// citeLabel reads the target label out of a Cite element's body, the
// "@kind:name" text without its @.
func citeLabel(n *ast.Node) (string, bool) {
	content, ok := n.Content.([]any)
	if !ok || len(content) != 2 {
		return "", false
	}
	body, ok := content[1].([]any)
	if !ok || len(body) == 0 {
		return "", false
	}
	first, ok := body[0].(*ast.Node)
	if !ok || first.Tag != "Str" {
		return "", false
	}
	text, _ := first.Content.(string)
	if !strings.HasPrefix(text, "@") {
		return "", false
	}
	return text[1:], true
}

// trimModifier moves a *, + or ! character sitting at the end of the Str
// before index i into the "modifier" attribute. It returns the updated run
// and the reference's new index.
func trimModifier(run []any, i int, a *attr.Attr) ([]any, int) {
	if i == 0 {
		return run, i
	}
	prev, ok := run[i-1].(*ast.Node)
	if !ok || prev.Tag != "Str" {
		return run, i
	}
	text, _ := prev.Content.(string)
	if text == "" {
		return run, i
	}
	mod := text[len(text)-1:]
	if mod != "*" && mod != "+" && mod != "!" {
		return run, i
	}

	a.Set("modifier", mod)
	if len(text) > 1 {
		run[i-1] = ast.Str(text[:len(text)-1])
		return run, i
	}
	return append(run[:i-1], run[i:]...), i - 1
}

// trimBraces removes curly brackets wrapping the Ref at index i, assuming
// any modifier has already been trimmed.
func trimBraces(run []any, i int) []any {
	if i-1 < 0 || i+1 >= len(run) {
		return run
	}
	prev, ok := run[i-1].(*ast.Node)
	if !ok || prev.Tag != "Str" {
		return run
	}
	next, ok := run[i+1].(*ast.Node)
	if !ok || next.Tag != "Str" {
		return run
	}
	before, _ := prev.Content.(string)
	after, _ := next.Content.(string)
	if !strings.HasSuffix(before, "{") || !strings.HasPrefix(after, "}") {
		return run
	}

	if len(after) > 1 {
		run[i+1] = ast.Str(after[1:])
	} else {
		run = append(run[:i+1], run[i+2:]...)
	}
	if len(before) > 1 {
		run[i-1] = ast.Str(before[:len(before)-1])
	} else {
		run = append(run[:i-1], run[i:]...)
	}
	return run
}
