package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVReader reads comma-separated tables with a header row.
type CSVReader struct{}

// Format returns the reader name.
func (CSVReader) Format() string { return "csv" }

// Read parses a CSV stream into a Table.
func (CSVReader) Read(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", name, err)
	}
	return fromRecords(name, records), nil
}

// fromRecords splits header from data and drops blank rows.
func fromRecords(name string, records [][]string) *Table {
	if len(records) == 0 {
		return New(name, nil, nil)
	}
	var rows [][]string
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return New(name, records[0], rows)
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
