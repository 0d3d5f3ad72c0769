// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import "fmt"

// GetMeta reads the named metadata variable and returns its Go value:
// string for MetaString and MetaInlines, bool for MetaBool, []string for
// MetaList. Variables of any other shape produce an error so the caller can
// report and skip them.
func GetMeta(meta Meta, name string) (any, error) {
	v, ok := meta[name]
	if !ok {
		return nil, fmt.Errorf("metadata variable %q not found", name)
	}
	n, ok := v.(*Node)
	if !ok {
		return nil, fmt.Errorf("metadata variable %q is not a tagged value", name)
	}

	switch n.Tag {
	case "MetaString", "MetaBool":
		return n.Content, nil
	case "MetaInlines":
		return Stringify(n.Content), nil
	case "MetaList":
		items, ok := n.Content.([]any)
		if !ok {
			return nil, fmt.Errorf("metadata list %q has no items", name)
		}
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = Stringify(item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("metadata variable %q has unsupported type %s", name, n.Tag)
	}
}
