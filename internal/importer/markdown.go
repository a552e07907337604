package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown files using goldmark.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (map[string]any, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var blocks []map[string]any
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title != "" {
				blocks = append(blocks, Heading(node.Level, title))
			}
		case *ast.List:
			// Each list item becomes its own paragraph so every item is
			// individually addressable by the edit pipeline.
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if t := extractText(item, src); t != "" {
					blocks = append(blocks, paragraphsFromText(t)...)
				}
			}
		default:
			if t := extractText(n, src); t != "" {
				blocks = append(blocks, paragraphsFromText(t)...)
			}
		}
	}

	return Doc(blocks), nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	// Raw lines only for blocks without inline children (code blocks);
	// otherwise the inline walk below would duplicate the text.
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
