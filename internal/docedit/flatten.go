package docedit

import "sort"

// Flatten converts an ID-assigned document tree into the ordered list of
// addressable leaf units, following document reading order (pre-order,
// array order preserved). Only leaves that carry an ID are emitted.
// Flatten is a pure function of the tree: two calls yield the same list.
func Flatten(node any) []FlatNode {
	var out []FlatNode
	flatten(node, &out)
	return out
}

func flatten(node any, out *[]FlatNode) {
	switch n := node.(type) {
	case map[string]any:
		c := classify(n)
		if c.leaf {
			if c.id != "" && c.text != "" {
				*out = append(*out, FlatNode{ID: c.id, Text: c.text})
			}
			return
		}

		if children, ok := n["children"].([]any); ok {
			for _, child := range children {
				flatten(child, out)
			}
		}
		if content, ok := n["content"].([]any); ok {
			for _, item := range content {
				flatten(item, out)
			}
		}
		// Any other structured attribute may hold nested nodes. Keys are
		// visited sorted so flattening order never depends on map iteration.
		var rest []string
		for k, v := range n {
			if structuralKeys[k] {
				continue
			}
			switch v.(type) {
			case map[string]any, []any:
				rest = append(rest, k)
			}
		}
		sort.Strings(rest)
		for _, k := range rest {
			flatten(n[k], out)
		}

	case []any:
		for _, item := range n {
			flatten(item, out)
		}
	}
}
