package groundtruth

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVExtractor flattens a CSV file to labeled plain text. The first row is
// taken as headers; each data row becomes one block so entry splitting on
// blank lines still works downstream.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return "", nil
	}

	headers := records[0]
	var blocks []string
	for _, row := range records[1:] {
		var fields []string
		for j, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				fields = append(fields, headers[j]+": "+cell)
			} else {
				fields = append(fields, cell)
			}
		}
		if len(fields) > 0 {
			blocks = append(blocks, strings.Join(fields, ", "))
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}
