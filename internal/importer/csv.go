package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVImporter handles CSV files. Each data row becomes one paragraph of
// "header: value" pairs so rows are individually addressable.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (map[string]any, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Doc(nil), nil
	}

	headers := records[0]
	blocks := []map[string]any{
		Paragraph("Headers: " + strings.Join(headers, ", ")),
	}

	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			if j < len(headers) {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		blocks = append(blocks, Paragraph(strings.Join(cells, ", ")))
	}

	return Doc(blocks), nil
}
