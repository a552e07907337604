// Package importer converts uploaded documents (markdown, HTML, DOCX, PDF,
// plain text, CSV) into the editor's JSON node tree, the same shape the
// edit pipeline consumes: maps with a "type" tag, "content" arrays, and
// "text" leaves. IDs are assigned by the caller after import.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Importer converts raw document bytes into an editor node tree.
type Importer interface {
	Import(r io.Reader, filename string) (map[string]any, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Node constructors for the editor tree shape.

// Doc wraps top-level blocks into a document root.
func Doc(blocks []map[string]any) map[string]any {
	content := make([]any, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, b)
	}
	return map[string]any{
		"type":    "doc",
		"content": content,
	}
}

// Paragraph builds a paragraph block holding one text run.
func Paragraph(text string) map[string]any {
	return map[string]any{
		"type": "paragraph",
		"content": []any{
			map[string]any{"type": "text", "text": text},
		},
	}
}

// Heading builds a heading block of the given level.
func Heading(level int, text string) map[string]any {
	return map[string]any{
		"type":  "heading",
		"attrs": map[string]any{"level": level},
		"content": []any{
			map[string]any{"type": "text", "text": text},
		},
	}
}

// paragraphsFromText splits a text block on blank lines and returns one
// paragraph node per segment, folding intra-paragraph newlines into spaces.
func paragraphsFromText(text string) []map[string]any {
	var blocks []map[string]any
	for _, seg := range strings.Split(text, "\n\n") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		seg = strings.Join(strings.Fields(seg), " ")
		blocks = append(blocks, Paragraph(seg))
	}
	return blocks
}
