package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is returned (wrapped in MissingColumnError) when an
// input lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError names the table and column that failed a column
// contract.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Table, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// Table is a header plus string rows, addressed by column name.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// New builds a Table. Header cells are trimmed; when a name repeats, the
// first column wins.
func New(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: make([]string, len(header)), Rows: rows, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the table has a column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require checks that every column exists and returns a
// *MissingColumnError for the first one that does not.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return &MissingColumnError{Table: t.Name, Column: c}
		}
	}
	return nil
}

// FirstOf returns the first of the candidate columns present in the table.
func (t *Table) FirstOf(cols ...string) (string, error) {
	for _, c := range cols {
		if t.Has(c) {
			return c, nil
		}
	}
	return "", &MissingColumnError{Table: t.Name, Column: strings.Join(cols, " | ")}
}

// Get returns the cell at col in row, or "" when the column is absent or
// the row is short.
func (t *Table) Get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
