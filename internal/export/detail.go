// Package export writes a run's results to the files handed to finance:
// the provision detail, the GL entries and the analysis workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// Provision detail columns.
var DetailHeader = []string{
	"GROUP_NAME",
	"Std Brand",
	"Closed_status",
	"LOCATION",
	"LOCATION_NAME",
	"Model",
	"NETTOTAL_COST",
	"SEASON_DESC",
	"std_season",
	"season_bucket",
	"location_category",
	"provision_%_policy",
	"Continuity_factor",
	"provision_amount_policy",
	"additional_provision",
	"Total Provision",
	"rule",
}

// CombinationHeader is the detail header followed by the GL coordinate.
var CombinationHeader = append(append([]string{}, DetailHeader...), "s1", "s2", "s3", "s4")

func detailRow(l model.StockLine) []string {
	return []string{
		l.GroupName,
		l.StdBrand,
		string(l.ClosedStatus),
		l.Location,
		l.LocationName,
		l.Model,
		l.NetCost.String(),
		l.RawSeason,
		l.StdSeason,
		string(l.Bucket),
		string(l.Category),
		l.PolicyRate.String(),
		l.ContinuityFactor.String(),
		l.PolicyAmount.String(),
		l.Additional.String(),
		l.Total.String(),
		l.Rule,
	}
}

// detailCells is detailRow with amounts as numbers for spreadsheet output.
func detailCells(l model.StockLine) []any {
	return []any{
		l.GroupName,
		l.StdBrand,
		string(l.ClosedStatus),
		l.Location,
		l.LocationName,
		l.Model,
		num(l.NetCost),
		l.RawSeason,
		l.StdSeason,
		string(l.Bucket),
		string(l.Category),
		num(l.PolicyRate),
		num(l.ContinuityFactor),
		num(l.PolicyAmount),
		num(l.Additional),
		num(l.Total),
		l.Rule,
	}
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func nullNum(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return num(d.Decimal)
}

// WriteDetail writes one CSV row per stock line.
func WriteDetail(w io.Writer, lines []model.StockLine) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(DetailHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range lines {
		if err := cw.Write(detailRow(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
