package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first sheet of an Excel workbook.
type XLSXReader struct{}

// Format returns the reader name.
func (XLSXReader) Format() string { return "xlsx" }

// Read parses the first worksheet into a Table. Cell values are read raw so
// that number formats (thousands separators, currency) do not leak into
// amounts.
func (XLSXReader) Read(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening %s workbook: %w", name, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s workbook has no sheets", name)
	}
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet %q: %w", name, sheet, err)
	}
	return fromRecords(name, records), nil
}
