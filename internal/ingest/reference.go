package ingest

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
	"github.com/stockwise-dev/agingprov/internal/table"
)

// Mappings indexes the brand mapping by upper-cased GROUP_NAME.
type Mappings struct {
	All []model.Mapping
	// Duplicates counts mapping rows whose raw GROUP_NAME cell occurs more
	// than once.
	Duplicates int
	byGroup    map[string]model.Mapping
}

// LoadMappings reads the mapping table. Joins use the trimmed, upper-cased
// GROUP_NAME and the first row per key wins. Duplicates counts repeats of
// the cell exactly as written, so "Delta" and "delta" share a join key but
// are not reported.
func LoadMappings(t *table.Table) (Mappings, error) {
	if err := t.Require(mappingRequired...); err != nil {
		return Mappings{}, err
	}

	m := Mappings{byGroup: make(map[string]model.Mapping, t.Len())}
	counts := make(map[string]int, t.Len())
	for _, row := range t.Rows {
		mp := model.Mapping{
			GroupName:    strings.ToUpper(strings.TrimSpace(t.Get(row, ColGroupName))),
			StdBrand:     strings.TrimSpace(t.Get(row, ColStdBrand)),
			ClosedStatus: model.ClosureStatus(strings.TrimSpace(t.Get(row, ColClosedStatus))),
		}
		m.All = append(m.All, mp)
		counts[t.Get(row, ColGroupName)]++
		if _, ok := m.byGroup[mp.GroupName]; !ok {
			m.byGroup[mp.GroupName] = mp
		}
	}
	for _, n := range counts {
		if n > 1 {
			m.Duplicates += n
		}
	}
	return m, nil
}

// Lookup returns the mapping for an upper-cased group name.
func (m Mappings) Lookup(group string) (model.Mapping, bool) {
	mp, ok := m.byGroup[group]
	return mp, ok
}

// Brands returns the distinct standardized brands in file order.
func (m Mappings) Brands() []string {
	seen := make(map[string]bool)
	var brands []string
	for _, mp := range m.All {
		if seen[mp.StdBrand] {
			continue
		}
		seen[mp.StdBrand] = true
		brands = append(brands, mp.StdBrand)
	}
	return brands
}

type comboKey struct {
	brand    string
	location string
}

// Combinations indexes GL coordinates by (Std Brand, LOCATION).
type Combinations struct {
	All   []model.Combination
	byKey map[comboKey]model.GLCode
}

// LoadCombinations reads the combinations table, keeping the first row
// for each (LOCATION, Std Brand) pair.
func LoadCombinations(t *table.Table) (Combinations, error) {
	if err := t.Require(combinationRequired...); err != nil {
		return Combinations{}, err
	}

	c := Combinations{byKey: make(map[comboKey]model.GLCode, t.Len())}
	for _, row := range t.Rows {
		k := comboKey{
			brand:    strings.TrimSpace(t.Get(row, ColStdBrand)),
			location: strings.TrimSpace(t.Get(row, ColLocation)),
		}
		if _, ok := c.byKey[k]; ok {
			continue
		}
		code := readCode(t, row)
		c.byKey[k] = code
		c.All = append(c.All, model.Combination{Location: k.location, StdBrand: k.brand, Code: code})
	}
	return c, nil
}

// Lookup returns the GL coordinate for a brand at a location.
func (c Combinations) Lookup(brand, location string) (model.GLCode, bool) {
	code, ok := c.byKey[comboKey{brand: brand, location: strings.TrimSpace(location)}]
	return code, ok
}

// LoadBalances reads the existing balance table. A nil table yields no
// balances. Unparseable balances count as zero.
func LoadBalances(t *table.Table) ([]model.Balance, error) {
	if t == nil {
		return nil, nil
	}
	if err := t.Require(balanceRequired...); err != nil {
		return nil, err
	}

	balances := make([]model.Balance, 0, t.Len())
	for _, row := range t.Rows {
		closing, _ := parseAmount(t.Get(row, ColClosingBalance))
		balances = append(balances, model.Balance{Code: readCode(t, row), Closing: closing})
	}
	return balances, nil
}

func readCode(t *table.Table, row []string) model.GLCode {
	return model.GLCode{
		S1: model.NormalizeSegment(t.Get(row, ColS1)),
		S2: model.NormalizeSegment(t.Get(row, ColS2)),
		S3: model.NormalizeSegment(t.Get(row, ColS3)),
		S4: model.NormalizeSegment(t.Get(row, ColS4)),
	}
}

// parseAmount coerces a cell to a decimal. Blank and malformed cells are
// zero; ok is false for them.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
