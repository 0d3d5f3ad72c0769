// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ast models the JSON document tree that pandoc exchanges with its
// filters. Every block and inline element is a tagged Node; containers are
// plain []any and map[string]any values so a filter can reshape inline runs
// the same way pandoc's own JSON does.
package ast

import (
	"encoding/json"
	"fmt"
)

// Node is one tagged element of the document tree, the {"t": ..., "c": ...}
// object in pandoc's JSON. Content holds the decoded "c" payload: a string
// for Str, a []any for Para, nil for Space, and so on. Elements with no
// payload (Space, LineBreak) have HasContent false so they round-trip
// without a "c" key.
type Node struct {
	Tag        string
	Content    any
	HasContent bool
}

// New builds a node with the given tag and content. A single content value
// is stored as-is; multiple values are stored as a []any payload, matching
// how pandoc encodes multi-argument constructors.
func New(tag string, content ...any) *Node {
	switch len(content) {
	case 0:
		return &Node{Tag: tag}
	case 1:
		return &Node{Tag: tag, Content: content[0], HasContent: true}
	default:
		return &Node{Tag: tag, Content: content, HasContent: true}
	}
}

// Constructors for the elements this toolkit produces.

// Str builds a text node.
func Str(text string) *Node { return New("Str", text) }

// Space builds an inter-word space node.
func Space() *Node { return New("Space") }

// Para builds a paragraph from a run of inlines.
func Para(inlines []any) *Node { return New("Para", inlines) }

// Plain builds an unwrapped block from a run of inlines.
func Plain(inlines []any) *Node { return New("Plain", inlines) }

// RawInline builds raw text in the given target format ("tex", "html").
func RawInline(format, text string) *Node { return New("RawInline", format, text) }

// RawBlock builds a raw block in the given target format.
func RawBlock(format, text string) *Node { return New("RawBlock", format, text) }

// InlineMath builds an inline Math node holding TeX source.
func InlineMath(tex string) *Node {
	return New("Math", New("InlineMath"), tex)
}

// Cite builds a citation node from citation records and body inlines.
func Cite(citations []any, inlines []any) *Node {
	return New("Cite", citations, inlines)
}

// Citation builds the record pandoc stores inside a Cite element for an
// in-text citation of the given id.
func Citation(id string) map[string]any {
	return map[string]any{
		"citationId":      id,
		"citationPrefix":  []any{},
		"citationSuffix":  []any{},
		"citationMode":    any(New("AuthorInText")),
		"citationNoteNum": float64(0),
		"citationHash":    float64(0),
	}
}

// Decode transforms a value freshly unmarshalled by encoding/json into a
// tree of *Node elements. Objects carrying a "t" key become nodes; all other
// objects stay maps. Decode never fails: values it does not recognize pass
// through unchanged.
func Decode(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Decode(item)
		}
		return out
	case map[string]any:
		if tag, ok := x["t"].(string); ok {
			n := &Node{Tag: tag}
			if c, ok := x["c"]; ok {
				n.Content = Decode(c)
				n.HasContent = true
			}
			return n
		}
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Decode(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON writes the node back in pandoc's tagged form.
func (n *Node) MarshalJSON() ([]byte, error) {
	if !n.HasContent {
		return json.Marshal(map[string]any{"t": n.Tag})
	}
	return json.Marshal(map[string]any{"t": n.Tag, "c": n.Content})
}

// UnmarshalJSON reads a tagged object directly into the node, decoding
// nested elements along the way.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tagRaw, ok := raw["t"]
	if !ok {
		return fmt.Errorf("pandoc node missing tag key")
	}
	if err := json.Unmarshal(tagRaw, &n.Tag); err != nil {
		return fmt.Errorf("decoding node tag: %w", err)
	}
	if cRaw, ok := raw["c"]; ok {
		var c any
		if err := json.Unmarshal(cRaw, &c); err != nil {
			return fmt.Errorf("decoding node content: %w", err)
		}
		n.Content = Decode(c)
		n.HasContent = true
	}
	return nil
}

// Inlines returns the node's content as an inline run. It is a convenience
// for elements like Para and Plain whose whole payload is one []any.
func (n *Node) Inlines() ([]any, bool) {
	run, ok := n.Content.([]any)
	return run, ok
}

// String renders the node for debugging output.
func (n *Node) String() string {
	if !n.HasContent {
		return n.Tag
	}
	return fmt.Sprintf("%s(%v)", n.Tag, n.Content)
}
