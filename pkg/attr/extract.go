// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package attr

import (
	"errors"
	"strings"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
)

// ErrNotFound reports that the inline run carries no attribute string at the
// requested position.
var ErrNotFound = errors.New("attributes not found")

// Extract reads an attribute string beginning at index n of an inline run
// and returns the parsed attributes together with the run with the consumed
// elements removed. Items before n are left unchanged. The attribute string
// may span several Str elements (markdown splits it at spaces); a closing
// brace inside a quoted value does not terminate it.
//
// Extract returns ErrNotFound when run[n] does not open an attribute string
// or no closing brace follows.
func Extract(run []any, n int) (Attr, []any, error) {
	if n < 0 || n >= len(run) {
		return Attr{}, run, ErrNotFound
	}
	first, ok := run[n].(*ast.Node)
	if !ok || first.Tag != "Str" {
		return Attr{}, run, ErrNotFound
	}
	text, _ := first.Content.(string)
	if !strings.HasPrefix(text, "{") {
		return Attr{}, run, ErrNotFound
	}

	// Scan forward for the closing brace, honoring quotes inside Str nodes.
	var seq []any
	var quote byte
	end := -1   // index into run of the element holding the closing brace
	var tail string
	for i := n; i < len(run); i++ {
		node, ok := run[i].(*ast.Node)
		if !ok {
			seq = append(seq, run[i])
			continue
		}
		if node.Tag != "Str" {
			seq = append(seq, node)
			continue
		}
		s, _ := node.Content.(string)
		closed := -1
		for j := 0; j < len(s); j++ {
			c := s[j]
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '}':
				closed = j
			}
			if closed >= 0 {
				break
			}
		}
		if closed < 0 {
			seq = append(seq, node)
			continue
		}
		seq = append(seq, ast.Str(s[:closed+1]))
		tail = s[closed+1:]
		end = i
		break
	}
	if end < 0 {
		return Attr{}, run, ErrNotFound
	}

	// Rebuild the run without the consumed elements, keeping any text that
	// followed the closing brace.
	out := make([]any, 0, len(run))
	out = append(out, run[:n]...)
	if tail != "" {
		out = append(out, ast.Str(tail))
	}
	out = append(out, run[end+1:]...)

	attrText := strings.TrimSpace(ast.Stringify(ast.Dollarfy(ast.Quotify(seq))))
	return Parse(attrText), out, nil
}
