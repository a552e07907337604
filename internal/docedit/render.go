package docedit

import (
	"fmt"
	"strings"
)

// Render serializes flat nodes into the plain-text block embedded in the
// edit prompt: one "[ID:<id>] <text>" line per node, text verbatim.
func Render(nodes []FlatNode) string {
	lines := make([]string, 0, len(nodes))
	for _, n := range nodes {
		lines = append(lines, fmt.Sprintf("[ID:%s] %s", n.ID, n.Text))
	}
	return strings.Join(lines, "\n")
}

// FilterByID returns the subset of nodes whose ID is in ids, preserving
// list order. Used to render the user's selected paragraphs.
func FilterByID(nodes []FlatNode, ids []string) []FlatNode {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []FlatNode
	for _, n := range nodes {
		if _, ok := want[n.ID]; ok {
			out = append(out, n)
		}
	}
	return out
}
