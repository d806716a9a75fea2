package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"edubot/internal/domain"
)

// Loader reads delimited data files into corpus rows.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Load parses a CSV file with a header row into domain rows. Any column
// layout is accepted; row texts are derived generically over the columns.
// On any read or parse error no rows are returned, so the caller's
// previous corpus stays untouched.
func (l *Loader) Load(path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	header := records[0]
	rows := make([]domain.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, buildRow(i, header, record))
	}

	return rows, nil
}

// buildRow derives both text forms for one record. Cells that are empty
// or the literal string "nan" are skipped; column order follows the header.
func buildRow(index int, header, record []string) domain.Row {
	original := make(map[string]string, len(header))
	var colonParts, proseParts []string

	for i, col := range header {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		original[col] = value
		if value == "" || value == "nan" {
			continue
		}
		colonParts = append(colonParts, fmt.Sprintf("%s: %s", col, value))
		proseParts = append(proseParts, fmt.Sprintf("%s is %s", col, value))
	}

	return domain.Row{
		Index:    index,
		Text:     joinParts(colonParts),
		Prose:    joinParts(proseParts),
		Original: original,
	}
}

func joinParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}
