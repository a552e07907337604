package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextImporter handles plain text files. Blank lines separate paragraphs.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks []map[string]any
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			blocks = append(blocks, Paragraph(current.String()))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return Doc(blocks), nil
}
