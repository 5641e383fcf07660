// Package aggregate rolls scored stock lines up into brand and category
// summaries and derives the data-quality diagnostics reviewed after a run.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// GrandTotalKey labels the summary row over all lines.
const GrandTotalKey = "Grand Total"

// Summary is the provision rolled up for one key, usually a brand.
type Summary struct {
	Key        string
	Lines      int
	NetCost    decimal.Decimal
	Policy     decimal.Decimal
	Additional decimal.Decimal
	Total      decimal.Decimal
	// Coverage is Total / NetCost, invalid when NetCost is zero.
	Coverage decimal.NullDecimal
}

func (s *Summary) add(l model.StockLine) {
	s.Lines++
	s.NetCost = s.NetCost.Add(l.NetCost)
	s.Policy = s.Policy.Add(l.PolicyAmount)
	s.Additional = s.Additional.Add(l.Additional)
	s.Total = s.Total.Add(l.Total)
}

func (s *Summary) finish() {
	s.Coverage = Coverage(s.Total, s.NetCost)
}

// Coverage returns total / cost, or an invalid value when cost is zero.
func Coverage(total, cost decimal.Decimal) decimal.NullDecimal {
	if cost.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(total.Div(cost))
}

// ByBrand summarizes lines per standardized brand, ordered by brand.
// Unmapped lines are grouped under the empty brand.
func ByBrand(lines []model.StockLine) []Summary {
	return by(lines, func(l model.StockLine) string { return l.StdBrand })
}

// Filter returns the lines matching keep.
func Filter(lines []model.StockLine, keep func(model.StockLine) bool) []model.StockLine {
	var out []model.StockLine
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// Total summarizes all lines under GrandTotalKey.
func Total(lines []model.StockLine) Summary {
	s := Summary{Key: GrandTotalKey}
	for _, l := range lines {
		s.add(l)
	}
	s.finish()
	return s
}

func by(lines []model.StockLine, key func(model.StockLine) string) []Summary {
	idx := make(map[string]int)
	var out []Summary
	for _, l := range lines {
		k := key(l)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Summary{Key: k})
		}
		out[i].add(l)
	}
	for i := range out {
		out[i].finish()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Report is the full set of summary tables for a run.
type Report struct {
	Brands   []Summary
	Damage   []Summary
	Leftover []Summary
	Closed   []Summary
	Total    Summary
}

// Summarize builds the brand table, the three category tables and the
// grand total.
func Summarize(lines []model.StockLine) Report {
	return Report{
		Brands: ByBrand(lines),
		Damage: ByBrand(Filter(lines, func(l model.StockLine) bool {
			return l.Category == model.CategoryDamage
		})),
		Leftover: ByBrand(Filter(lines, func(l model.StockLine) bool {
			return l.Category == model.CategoryLeftover
		})),
		Closed: ByBrand(Filter(lines, model.StockLine.IsClosed)),
		Total:  Total(lines),
	}
}
