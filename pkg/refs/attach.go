// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/attr"
)

// Attach finds elements of the given tag that are followed in their inline
// run by an attribute string like {#fig:one}, removes the string, and
// prepends the parsed attribute triple to the element's content. Older
// pandoc versions parse attributes on images and math this way rather than
// natively. allowSpace permits one Space between the element and its
// attributes.
//
// A paragraph reduced to a single attributed Image is marked as a figure,
// matching pandoc's implicit_figures extension.
func Attach(v any, tag string, allowSpace bool) any {
	action := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		if n.Tag != "Para" && n.Tag != "Plain" {
			return nil, false
		}
		run, ok := n.Inlines()
		if !ok {
			return nil, false
		}
		run = attachInRun(run, tag, allowSpace)
		n.Content = run

		if tag == "Image" && len(run) == 1 {
			if img, ok := run[0].(*ast.Node); ok && img.Tag == "Image" {
				markFigure(img)
			}
		}
		return nil, false
	}
	return ast.Walk(v, action, "", nil)
}

// attachInRun scans one inline run for tag elements trailed by attribute
// strings and folds the attributes into them.
func attachInRun(run []any, tag string, allowSpace bool) []any {
	for i := 0; i < len(run); i++ {
		n, ok := run[i].(*ast.Node)
		if !ok || n.Tag != tag {
			continue
		}
		at := i + 1
		skippedSpace := false
		if allowSpace && at < len(run) {
			if sp, ok := run[at].(*ast.Node); ok && sp.Tag == "Space" {
				at++
				skippedSpace = true
			}
		}
		a, rest, err := attr.Extract(run, at)
		if err != nil {
			continue
		}
		run = rest
		if skippedSpace {
			// Drop the Space that separated the element from its attributes.
			run = append(run[:i+1], run[i+2:]...)
		}
		if content, ok := n.Content.([]any); ok {
			n.Content = append([]any{a.ToPandoc()}, content...)
		}
	}
	return run
}

// markFigure sets the image title slot to the "fig:" marker pandoc uses to
// promote a lone image to a figure.
func markFigure(img *ast.Node) {
	content, ok := img.Content.([]any)
	if !ok || len(content) == 0 {
		return
	}
	target, ok := content[len(content)-1].([]any)
	if !ok || len(target) != 2 {
		return
	}
	target[1] = "fig:"
}

// StripAttrs replaces attributed elements of the given tag with their
// unattributed form of arity slots, for writers that predate attributes on
// that element.
func StripAttrs(v any, tag string, arity int) any {
	action := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		if n.Tag != tag {
			return nil, false
		}
		content, ok := n.Content.([]any)
		if !ok || len(content) != arity+1 {
			return nil, false
		}
		n.Content = content[1:]
		return nil, false
	}
	return ast.Walk(v, action, "", nil)
}
