package docedit

// AssignIDs walks a JSON-shaped document tree and gives every typed node
// that lacks an ID a fresh unique short one. The tree is mutated in place
// and returned; callers that need the input untouched should pass a
// CloneTree copy. Scalars pass through unchanged.
func AssignIDs(node any, alloc *IDAllocator) any {
	if alloc == nil {
		alloc = NewIDAllocator(nil)
	}
	assignIDs(node, alloc)
	return node
}

func assignIDs(node any, alloc *IDAllocator) {
	switch n := node.(type) {
	case map[string]any:
		if id, ok := n["id"].(string); ok && id != "" {
			alloc.Reserve(id)
		} else if _, typed := n["type"]; typed {
			n["id"] = alloc.Next()
		}
		for _, v := range n {
			assignIDs(v, alloc)
		}
	case []any:
		for _, item := range n {
			assignIDs(item, alloc)
		}
	}
}
