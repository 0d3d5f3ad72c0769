// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

// Meta holds a document's metadata block: key to Meta* node.
type Meta map[string]any

// Action inspects one node encountered inside a container and decides its
// fate. Returning (nil, false) keeps the node and descends into it. Returning
// (run, true) splices run in its place; an empty run deletes the node. The
// walk descends into replacement nodes, so an action must not reproduce a
// node it would match again.
//
// An action may also rewrite the node's Content before returning
// (nil, false); the walk then descends into the rewritten content. Helpers
// that reshape whole inline runs (JoinStrings, reference repair) work this
// way.
type Action func(n *Node, format string, meta Meta) ([]any, bool)

// Walk traverses a decoded document value depth-first, applying action to
// every node found inside a slice, and returns a rebuilt value. The input
// containers are left intact; leaf values are shared between the two trees.
func Walk(v any, action Action, format string, meta Meta) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			n, ok := item.(*Node)
			if !ok {
				out = append(out, Walk(item, action, format, meta))
				continue
			}
			run, replaced := action(n, format, meta)
			if !replaced {
				out = append(out, rebuild(n, action, format, meta))
				continue
			}
			out = append(out, Walk(run, action, format, meta).([]any)...)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Walk(item, action, format, meta)
		}
		return out
	case *Node:
		return rebuild(x, action, format, meta)
	default:
		return v
	}
}

func rebuild(n *Node, action Action, format string, meta Meta) *Node {
	return &Node{
		Tag:        n.Tag,
		Content:    Walk(n.Content, action, format, meta),
		HasContent: n.HasContent,
	}
}
