// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/attr"
)

// Options controls how Ref tokens are rendered.
type Options struct {
	// Format is the pandoc output format tag ("latex", "html", "epub", ...).
	Format string

	// Cleveref turns clever referencing ("Fig. 3" instead of "3") on for
	// references without an explicit modifier.
	Cleveref bool

	// Target is the LaTeX counter the references resolve against
	// ("figure", "equation", "table").
	Target string

	// PlusName and StarName are the names prepended by the + and *
	// modifiers, typically an abbreviation and the capitalized word
	// ("fig." and "Figure").
	PlusName string
	StarName string
}

// Replace walks the tree and substitutes every Ref token with rendered text
// for opts.Format: \ref/\cref markup for LaTeX, a linked number for HTML,
// and the plain number elsewhere. A Ref whose label is missing from table
// becomes a visible "[?label]" placeholder and is reported through warn; the
// run carries on.
//
// For LaTeX output with clever referencing in play, the macros faking
// cleveref behaviour are injected once before the first paragraph. A tree
// containing no Ref tokens passes through unchanged, so running Replace
// again after a full rewrite is a no-op.
func Replace(v any, table *Table, opts Options, warn WarnFunc) any {
	needTeX := opts.Format == "latex" && (opts.Cleveref || hasModifiedRef(v))

	action := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		if needTeX {
			switch {
			case n.Tag == "RawBlock" && rawBlockIsCleveref(n):
				needTeX = false
			case n.Tag == "Para":
				needTeX = false
				run, _ := n.Inlines()
				return []any{
					ast.RawBlock("tex", cleverefMacros(opts)),
					ast.RawBlock("tex", cleverefFakery()),
					ast.Para(run),
				}, true
			}
		}

		if n.Tag != "Ref" {
			return nil, false
		}
		return []any{renderRef(n, table, opts, warn)}, true
	}

	out := ast.Walk(v, action, opts.Format, nil)

	// No paragraph to anchor the preamble on; emit it as a leading block.
	if needTeX {
		if blocks, ok := out.([]any); ok {
			out = append([]any{
				ast.RawBlock("tex", cleverefMacros(opts)),
				ast.RawBlock("tex", cleverefFakery()),
			}, blocks...)
		}
	}
	return out
}

// renderRef produces the replacement for one Ref token.
func renderRef(n *ast.Node, table *Table, opts Options, warn WarnFunc) any {
	content, ok := n.Content.([]any)
	if !ok || len(content) != 2 {
		warn.warnf("malformed reference token; replacing with placeholder")
		return ast.Str("[?]")
	}
	label, _ := content[1].(string)
	a, err := attr.FromPandoc(content[0])
	if err != nil {
		a = attr.Attr{}
	}

	ordinal, ok := table.Ordinal(label)
	if !ok {
		warn.warnf("no target found for reference %q", label)
		return ast.Str("[?" + label + "]")
	}

	mod, hasMod := a.Get("modifier")
	clever := opts.Cleveref
	plus := opts.Cleveref
	if hasMod {
		clever = mod == "*" || mod == "+"
		plus = mod == "+"
	}
	name := opts.StarName
	if plus {
		name = opts.PlusName
	}

	switch opts.Format {
	case "latex":
		if !clever {
			return ast.RawInline("tex", fmt.Sprintf(`\ref{%s}`, label))
		}
		macro := `\Cref`
		renew := fmt.Sprintf(`\renewcommand{\starnamesingular}{%s}`, opts.StarName)
		if plus {
			macro = `\cref`
			renew = fmt.Sprintf(`\renewcommand{\plusnamesingular}{%s}`, opts.PlusName)
		}
		return ast.RawInline("tex", fmt.Sprintf(`%s%s{%s}`, renew, macro, label))

	case "html", "html5", "epub", "epub3":
		num := strconv.Itoa(ordinal)
		link := []any{
			ast.RawInline("html", fmt.Sprintf(`<a href="#%s">`, label)),
			ast.Str(num),
			ast.RawInline("html", `</a>`),
		}
		if clever {
			link = append([]any{ast.Str(name), ast.Space()}, link...)
		}
		return ast.New("Span", attr.Attr{}.ToPandoc(), link)

	default:
		num := strconv.Itoa(ordinal)
		if clever {
			return ast.New("Span", attr.Attr{}.ToPandoc(),
				[]any{ast.Str(name), ast.Space(), ast.Str(num)})
		}
		return ast.Str(num)
	}
}

// hasModifiedRef reports whether any Ref token in the tree carries a * or +
// modifier, which forces the cleveref preamble even when clever referencing
// is off by default.
func hasModifiedRef(v any) bool {
	found := false
	probe := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		if n.Tag != "Ref" || found {
			return nil, false
		}
		if content, ok := n.Content.([]any); ok && len(content) == 2 {
			if a, err := attr.FromPandoc(content[0]); err == nil {
				if mod, ok := a.Get("modifier"); ok && (mod == "*" || mod == "+") {
					found = true
				}
			}
		}
		return nil, false
	}
	ast.Walk(v, probe, "", nil)
	return found
}

// rawBlockIsCleveref reports whether a RawBlock already holds the injected
// cleveref TeX, so a second pass does not duplicate it.
func rawBlockIsCleveref(n *ast.Node) bool {
	content, ok := n.Content.([]any)
	if !ok || len(content) != 2 {
		return false
	}
	format, _ := content[0].(string)
	text, _ := content[1].(string)
	return format == "tex" && strings.HasPrefix(text, "% Cleveref")
}

// cleverefMacros returns TeX wiring \crefformat to the configured names for
// documents that load the real cleveref package.
func cleverefMacros(opts Options) string {
	lines := []string{
		`% Cleveref macros`,
		`\providecommand{\crefformat}[2]{}{}`,
		`\providecommand{\Crefformat}[2]{}{}`,
		fmt.Sprintf(`\crefformat{%s}{%s~#2#1#3}`, opts.Target, opts.PlusName),
		fmt.Sprintf(`\Crefformat{%s}{%s~#2#1#3}`, opts.Target, opts.StarName),
	}
	return strings.Join(lines, "\n") + "\n"
}

// cleverefFakery returns TeX that imitates \cref and \Cref when cleveref is
// not loaded at all.
func cleverefFakery() string {
	lines := []string{
		`% Cleveref fakery`,
		`\providecommand{\plusnamesingular}{}`,
		`\providecommand{\starnamesingular}{}`,
		`\providecommand{\cref}{\plusnamesingular~\ref}`,
		`\providecommand{\Cref}{\starnamesingular~\ref}`,
	}
	return strings.Join(lines, "\n") + "\n"
}
