// Package runlog keeps an append-only CSV history of provision runs in the
// output directory.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FileName is the run history file inside the output directory.
const FileName = "run-log.csv"

// Header is the CSV header for the run log.
const Header = "timestamp,soh_file,lines,net_cost,total_provision,entry_rows,diff_rows,reconciled"

const (
	numFields     = 8
	colTimestamp  = 0
	colSOHFile    = 1
	colLines      = 2
	colNetCost    = 3
	colTotal      = 4
	colEntryRows  = 5
	colDiffRows   = 6
	colReconciled = 7
)

// Entry records one run.
type Entry struct {
	Timestamp  time.Time
	SOHFile    string
	Lines      int
	NetCost    decimal.Decimal
	Total      decimal.Decimal
	EntryRows  int
	DiffRows   int
	Reconciled bool
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSOHFile] = e.SOHFile
	row[colLines] = strconv.Itoa(e.Lines)
	row[colNetCost] = e.NetCost.StringFixed(2)
	row[colTotal] = e.Total.StringFixed(2)
	row[colEntryRows] = strconv.Itoa(e.EntryRows)
	row[colDiffRows] = strconv.Itoa(e.DiffRows)
	row[colReconciled] = strconv.FormatBool(e.Reconciled)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var e Entry
	var err error
	if e.Timestamp, err = time.Parse(time.RFC3339, record[colTimestamp]); err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	e.SOHFile = record[colSOHFile]
	if e.Lines, err = strconv.Atoi(record[colLines]); err != nil {
		return Entry{}, fmt.Errorf("parsing lines %q: %w", record[colLines], err)
	}
	if e.NetCost, err = decimal.NewFromString(record[colNetCost]); err != nil {
		return Entry{}, fmt.Errorf("parsing net_cost %q: %w", record[colNetCost], err)
	}
	if e.Total, err = decimal.NewFromString(record[colTotal]); err != nil {
		return Entry{}, fmt.Errorf("parsing total_provision %q: %w", record[colTotal], err)
	}
	if e.EntryRows, err = strconv.Atoi(record[colEntryRows]); err != nil {
		return Entry{}, fmt.Errorf("parsing entry_rows %q: %w", record[colEntryRows], err)
	}
	if e.DiffRows, err = strconv.Atoi(record[colDiffRows]); err != nil {
		return Entry{}, fmt.Errorf("parsing diff_rows %q: %w", record[colDiffRows], err)
	}
	if e.Reconciled, err = strconv.ParseBool(record[colReconciled]); err != nil {
		return Entry{}, fmt.Errorf("parsing reconciled %q: %w", record[colReconciled], err)
	}
	return e, nil
}

// Append adds e to <dir>/run-log.csv, writing the header when the file is
// new.
func Append(dir string, e Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every run recorded in dir, oldest first. A missing log
// yields no entries.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
