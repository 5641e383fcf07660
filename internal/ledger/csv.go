package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// Header is the CSV header consumed by the accounting import.
const Header = "s1,s2,s3,s4,s5,Dr/(CR)"

const (
	numFields = 6
	colS1     = 0
	colS2     = 1
	colS3     = 2
	colS4     = 3
	colS5     = 4
	colAmount = 5
)

// WriteEntries writes entries with the header row.
func WriteEntries(w io.Writer, entries []model.GLEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadEntries reads an entry CSV written by WriteEntries.
func ReadEntries(r io.Reader) ([]model.GLEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entry CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.GLEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MarshalEntry converts an entry to a CSV row. Amounts are written at full
// precision so that every nonzero row stays nonzero in the file.
func MarshalEntry(e model.GLEntry) []string {
	row := make([]string, numFields)
	row[colS1] = e.Code.S1
	row[colS2] = e.Code.S2
	row[colS3] = e.Code.S3
	row[colS4] = e.Code.S4
	row[colS5] = e.S5
	row[colAmount] = e.Amount.String()
	return row
}

// UnmarshalEntry converts a CSV row to an entry.
func UnmarshalEntry(record []string) (model.GLEntry, error) {
	if len(record) != numFields {
		return model.GLEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.GLEntry{}, fmt.Errorf("parsing Dr/(CR) %q: %w", record[colAmount], err)
	}
	return model.GLEntry{
		Code: model.GLCode{
			S1: record[colS1],
			S2: record[colS2],
			S3: record[colS3],
			S4: record[colS4],
		},
		S5:     record[colS5],
		Amount: amount,
	}, nil
}
