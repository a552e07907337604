package docedit

import "strings"

// FlatNode is one leaf-level addressable content unit of a document:
// a paragraph-like node with a stable short ID and its visible text.
// Empty text is a valid empty paragraph.
type FlatNode struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// The editor document tree arrives as untyped JSON: maps with a "type" tag,
// optional "text", optional ordered "content"/"children" arrays, optional
// "attrs". Rather than re-deriving "is this a leaf" at every touch point,
// classify normalizes each map once into a leaf or container view.

type nodeClass struct {
	id   string
	leaf bool
	text string
}

// reserved keys that are not traversed as nested structure.
var structuralKeys = map[string]bool{
	"id":       true,
	"text":     true,
	"children": true,
	"content":  true,
	"attrs":    true,
}

// classify decides whether a map node directly holds visible text (leaf)
// or must be recursed into (container), and resolves its ID.
//
// Leaf tests, in priority order:
//  1. a "text" field that is non-empty after trimming;
//  2. a "content" array where at least one item carries direct text and no
//     item carries a further nested "content" array.
func classify(node map[string]any) nodeClass {
	c := nodeClass{id: nodeID(node)}

	if t, ok := node["text"].(string); ok && strings.TrimSpace(t) != "" {
		c.leaf = true
		c.text = normalizeText(t)
		return c
	}

	content, ok := node["content"].([]any)
	if !ok {
		return c
	}
	textItems := 0
	nestedItems := 0
	for _, item := range content {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["text"].(string); ok && strings.TrimSpace(t) != "" {
			textItems++
		}
		if _, ok := m["content"].([]any); ok {
			nestedItems++
		}
	}
	if textItems > 0 && nestedItems == 0 {
		c.leaf = true
		c.text = normalizeText(extractContentText(content))
	}
	return c
}

// nodeID resolves a node's ID, preferring the node-level "id" and falling
// back to "attrs.id" (two JSON schema conventions for the same concept).
func nodeID(node map[string]any) string {
	if id, ok := node["id"].(string); ok && id != "" {
		return id
	}
	if attrs, ok := node["attrs"].(map[string]any); ok {
		if id, ok := attrs["id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// extractContentText space-joins the text of every text-bearing item in a
// content array, recursing into items that nest their own content.
func extractContentText(content []any) string {
	var parts []string
	for _, item := range content {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["text"].(string); ok && t != "" {
			parts = append(parts, t)
			continue
		}
		if nested, ok := m["content"].([]any); ok {
			if t := extractContentText(nested); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

// normalizeText folds embedded newlines into spaces. The dump format is one
// line per node, so a newline inside a paragraph would corrupt the
// render/reconcile round trip.
func normalizeText(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// CloneTree deep-copies a JSON-shaped document tree so the caller's input
// is never mutated by ID assignment.
func CloneTree(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = CloneTree(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = CloneTree(v)
		}
		return out
	default:
		return node
	}
}
