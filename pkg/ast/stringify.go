// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"strings"
)

// Stringify flattens a document value to the plain text it contains. All
// formatting is dropped; Code and Math payloads pass through literally and
// footnotes are skipped. Quoted elements contribute only their body, so run
// Quotify first when the quote marks matter.
func Stringify(v any) string {
	var b strings.Builder
	collect := func(n *Node, _ string, _ Meta) ([]any, bool) {
		switch n.Tag {
		case "Str", "MetaString":
			if s, ok := n.Content.(string); ok {
				b.WriteString(s)
			}
		case "Code", "Math":
			if payload, ok := n.Content.([]any); ok && len(payload) == 2 {
				if s, ok := payload[1].(string); ok {
					b.WriteString(s)
				}
			}
		case "Space", "SoftBreak", "LineBreak":
			b.WriteString(" ")
		case "Note":
			return nil, true
		}
		return nil, false
	}
	Walk(v, collect, "", nil)
	return b.String()
}

// JoinStrings merges adjacent Str nodes in an inline run, producing the
// shape pandoc itself would emit. Filters that split or synthesize Str
// elements call this as their last pass.
func JoinStrings(run []any) []any {
	out := make([]any, 0, len(run))
	for _, item := range run {
		n, ok := item.(*Node)
		if ok && n.Tag == "Str" && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Node); ok && prev.Tag == "Str" {
				s, _ := prev.Content.(string)
				t, _ := n.Content.(string)
				out[len(out)-1] = Str(s + t)
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// joinStringsAction applies JoinStrings to every paragraph-like block.
func joinStringsAction(n *Node, _ string, _ Meta) ([]any, bool) {
	if n.Tag == "Para" || n.Tag == "Plain" {
		if run, ok := n.Inlines(); ok {
			n.Content = JoinStrings(run)
		}
	}
	return nil, false
}

// JoinDocStrings runs JoinStrings over every Para and Plain block in the
// tree and returns the rebuilt value.
func JoinDocStrings(v any, format string, meta Meta) any {
	return Walk(v, joinStringsAction, format, meta)
}

// Quotify replaces Quoted elements with their body wrapped in literal quote
// characters. Stringify ignores quote marks, so attribute text that may
// contain quoted values goes through Quotify first.
func Quotify(v any) any {
	unquote := func(n *Node, _ string, _ Meta) ([]any, bool) {
		if n.Tag != "Quoted" {
			return nil, false
		}
		payload, ok := n.Content.([]any)
		if !ok || len(payload) != 2 {
			return nil, false
		}
		quote := `"`
		if kind, ok := payload[0].(*Node); ok && kind.Tag == "SingleQuote" {
			quote = "'"
		}
		body, ok := payload[1].([]any)
		if !ok {
			return nil, false
		}
		run := append([]any{Str(quote)}, body...)
		run = append(run, Str(quote))
		return JoinStrings(run), true
	}
	return Walk(v, unquote, "", nil)
}

// Dollarfy replaces Math elements with their TeX source set in dollar
// signs, so stringified text keeps the math readable.
func Dollarfy(v any) any {
	dollar := func(n *Node, _ string, _ Meta) ([]any, bool) {
		if n.Tag != "Math" {
			return nil, false
		}
		if payload, ok := n.Content.([]any); ok && len(payload) == 2 {
			if tex, ok := payload[1].(string); ok {
				return []any{Str("$" + tex + "$")}, true
			}
		}
		return nil, false
	}
	return Walk(v, dollar, "", nil)
}

// Inlinify renders a plain string as a run of Str and Space nodes, the
// inverse of Stringify for unformatted text. Leading and trailing spaces
// are preserved; interior whitespace collapses to single spaces.
func Inlinify(s string) []any {
	if s == "" {
		return nil
	}
	var run []any
	if s[0] == ' ' {
		run = append(run, Space())
	}
	for i, word := range strings.Fields(s) {
		if i > 0 {
			run = append(run, Space())
		}
		run = append(run, Str(word))
	}
	if len(s) > 1 && s[len(s)-1] == ' ' {
		run = append(run, Space())
	}
	return run
}
