package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/stockwise-dev/agingprov/internal/aggregate"
	"github.com/stockwise-dev/agingprov/internal/model"
	"github.com/stockwise-dev/agingprov/internal/pipeline"
)

// Analysis workbook sheet names, in order.
const (
	SheetSummary             = "Summary"
	SheetDamage              = "Damage"
	SheetLeftover            = "Leftover"
	SheetClosed              = "Closed"
	SheetChecks              = "Checks"
	SheetBuckets             = "Season Buckets"
	SheetSeasons             = "Season Map"
	SheetMissingCombinations = "Missing Combinations"
	SheetUnknownSeasons      = "Unknown Seasons"
	SheetBlankSeasons        = "Blank Seasons"
)

var summaryHeader = []any{
	"Std Brand", "Lines", "NETTOTAL_COST", "provision_amount_policy",
	"additional_provision", "Total Provision", "coverage",
}

// workbook appends whole tables to named sheets of a new file.
type workbook struct {
	f     *excelize.File
	first bool
}

func newWorkbook() *workbook {
	return &workbook{f: excelize.NewFile(), first: true}
}

func (wb *workbook) sheet(name string, header []any, rows [][]any) error {
	if wb.first {
		if current := wb.f.GetSheetName(0); current != name {
			if err := wb.f.SetSheetName(current, name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", name, err)
			}
		}
		wb.first = false
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}

	if err := wb.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

func (wb *workbook) write(w io.Writer) error {
	defer wb.f.Close()
	if err := wb.f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteCombinations writes the provision detail joined with each line's GL
// coordinate as a single-sheet workbook.
func WriteCombinations(w io.Writer, lines []model.StockLine) error {
	header := make([]any, len(CombinationHeader))
	for i, h := range CombinationHeader {
		header[i] = h
	}
	rows := make([][]any, len(lines))
	for i, l := range lines {
		rows[i] = append(detailCells(l), l.Code.S1, l.Code.S2, l.Code.S3, l.Code.S4)
	}

	wb := newWorkbook()
	if err := wb.sheet("Sheet1", header, rows); err != nil {
		wb.f.Close()
		return err
	}
	return wb.write(w)
}

// WriteAnalysis writes the summary tables and diagnostics workbook.
func WriteAnalysis(w io.Writer, res *pipeline.Result) error {
	wb := newWorkbook()
	err := writeAnalysisSheets(wb, res)
	if err != nil {
		wb.f.Close()
		return err
	}
	return wb.write(w)
}

func writeAnalysisSheets(wb *workbook, res *pipeline.Result) error {
	r := res.Report
	brands := append(summaryRows(r.Brands), summaryRow(r.Total))
	tables := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, brands},
		{SheetDamage, summaryRows(r.Damage)},
		{SheetLeftover, summaryRows(r.Leftover)},
		{SheetClosed, summaryRows(r.Closed)},
	}
	for _, tb := range tables {
		if err := wb.sheet(tb.name, summaryHeader, tb.rows); err != nil {
			return err
		}
	}

	if err := wb.sheet(SheetChecks, []any{"Check", "Value"}, checkRows(res)); err != nil {
		return err
	}

	d := res.Diagnostics
	var buckets [][]any
	for _, p := range d.BucketSeasons {
		buckets = append(buckets, []any{string(p.Bucket), p.Season})
	}
	if err := wb.sheet(SheetBuckets, []any{"season_bucket", "std_season"}, buckets); err != nil {
		return err
	}

	var seasons [][]any
	for _, p := range d.Seasons {
		seasons = append(seasons, []any{p.Raw, p.Std})
	}
	if err := wb.sheet(SheetSeasons, []any{"SEASON_DESC", "std_season"}, seasons); err != nil {
		return err
	}

	var missing [][]any
	for _, l := range d.MissingCombinations {
		missing = append(missing, []any{l.StdBrand, l.Location, l.LocationName, num(l.NetCost), num(l.Total)})
	}
	if err := wb.sheet(SheetMissingCombinations,
		[]any{"Std Brand", "LOCATION", "LOCATION_NAME", "NETTOTAL_COST", "Total Provision"}, missing); err != nil {
		return err
	}

	if err := wb.sheet(SheetUnknownSeasons, summaryHeader, summaryRows(d.UnknownSeasons)); err != nil {
		return err
	}
	return wb.sheet(SheetBlankSeasons, summaryHeader, summaryRows(d.BlankSeasons))
}

func summaryRows(ss []aggregate.Summary) [][]any {
	rows := make([][]any, len(ss))
	for i, s := range ss {
		rows[i] = summaryRow(s)
	}
	return rows
}

func summaryRow(s aggregate.Summary) []any {
	return []any{s.Key, s.Lines, num(s.NetCost), num(s.Policy), num(s.Additional), num(s.Total), nullNum(s.Coverage)}
}

func checkRows(res *pipeline.Result) [][]any {
	d := res.Diagnostics
	rec := res.Reconciliation
	rows := [][]any{
		{"Lines", len(res.Lines)},
		{"Excluded brand group rows", res.Stock.ExcludedGroup},
		{"Not considered rows", res.Stock.NotConsidered},
		{"Exited brand rows", res.Stock.Exited},
		{"Cost cells coerced to 0", res.Stock.CoercedCosts},
		{"Duplicate GROUP_NAME rows in mapping", d.DuplicateMappings},
		{"Missing std brand cost", num(d.UnmappedCost)},
		{"Missing combination rows", len(d.MissingCombinations)},
		{"Missing combination cost", num(d.MissingCombinationCost)},
		{"Entry reserve total", num(rec.EntryReserve)},
		{"Diff reserve total", num(rec.DiffReserve)},
		{"Existing balance total", num(rec.ExistingTotal)},
		{"Reconciled", strconv.FormatBool(rec.OK)},
	}
	for _, b := range d.MissingBrands {
		rows = append(rows, []any{"Mapping brand missing from SOH", b})
	}
	return rows
}
