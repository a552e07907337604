package docedit

import (
	"regexp"
	"strings"
)

// Path markers for PathUpdate. A nil Path means "replace the content of the
// existing node with this ID".
const (
	PathNew    = "new"
	PathDelete = "delete"
)

// PathUpdate is one incremental edit the client applies to its document:
// replace an existing node's content (Path nil), insert a new node
// (Path "new"), or remove a node (Path "delete"). Nodes absent from the
// update list are unchanged.
type PathUpdate struct {
	Path    *string `json:"path"`
	Content string  `json:"content"`
	ID      string  `json:"id"`
}

var (
	idTagRe     = regexp.MustCompile(`\[ID:?\s*([a-zA-Z0-9]+)\]`)
	deleteTagRe = regexp.MustCompile(`^\[DELETE:?\s*([a-zA-Z0-9]+)\]$`)
)

// emptyMarker is the placeholder the model is instructed to emit for empty
// paragraphs in place of blank content.
const emptyMarker = "(empty)"

// Reconcile parses the model's annotated response and reduces it to the
// minimal ordered list of updates. Lines are processed independently in
// response order, which becomes the output order. Per line:
//
//	[ID:xxx]            unchanged (or content identical to original): no update
//	[ID:xxx] new text   modified: update with Path nil
//	[NEW] content       inserted: update with Path "new" and a fresh or tagged ID
//	[DELETE:xxx]        removed: update with Path "delete" (no content)
//
// Each original ID yields at most one update; later occurrences are ignored.
// Lines with no recognizable instruction, stray truncated ID fragments, and
// references to IDs absent from the original list are silently skipped;
// garbage in one line must not invalidate the rest of the edit.
//
// gen supplies IDs for untagged [NEW] lines; nil uses NewNodeID.
func Reconcile(editedText string, original []FlatNode, gen IDGenerator) []PathUpdate {
	if gen == nil {
		gen = NewNodeID
	}

	originalByID := make(map[string]FlatNode, len(original))
	for _, n := range original {
		if _, seen := originalByID[n.ID]; !seen {
			originalByID[n.ID] = n
		}
	}

	updates := []PathUpdate{}
	processed := make(map[string]struct{})

	for _, rawLine := range strings.Split(editedText, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := deleteTagRe.FindStringSubmatch(line); m != nil {
			id := m[1]
			if _, done := processed[id]; done {
				continue
			}
			processed[id] = struct{}{}
			if _, exists := originalByID[id]; exists {
				updates = append(updates, PathUpdate{Path: ptr(PathDelete), ID: id})
			}
			continue
		}

		isNew := false
		if strings.HasPrefix(line, "[NEW]") {
			isNew = true
			line = strings.TrimSpace(strings.TrimPrefix(line, "[NEW]"))
		}

		taggedID := ""
		finalText := line
		if loc := idTagRe.FindStringSubmatchIndex(line); loc != nil {
			taggedID = line[loc[2]:loc[3]]
			finalText = strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
		}
		if finalText == emptyMarker {
			finalText = ""
		}

		if isNew {
			id := taggedID
			if id == "" {
				id = gen()
			} else if _, done := processed[taggedID]; done {
				continue
			}
			updates = append(updates, PathUpdate{Path: ptr(PathNew), Content: finalText, ID: id})
			if taggedID != "" {
				processed[taggedID] = struct{}{}
			}
			continue
		}

		// Existing-node line: an ID tag is the whole instruction.
		if taggedID == "" {
			continue
		}
		if _, done := processed[taggedID]; done {
			continue
		}
		// A leftover fragment like "[ID:ab" after tag stripping means the
		// model mangled the line; don't treat it as paragraph content.
		if strings.HasPrefix(finalText, "[ID:") && len(finalText) < 15 {
			continue
		}
		processed[taggedID] = struct{}{}

		orig, exists := originalByID[taggedID]
		if !exists {
			// Edit instruction for a node that was never in the document
			// and wasn't declared [NEW]; nothing addressable to update.
			continue
		}
		if finalText != orig.Text {
			updates = append(updates, PathUpdate{Content: finalText, ID: taggedID})
		}
	}

	return updates
}

func ptr(s string) *string { return &s }
