package ingest

import (
	"strings"

	"github.com/stockwise-dev/agingprov/internal/model"
	"github.com/stockwise-dev/agingprov/internal/season"
	"github.com/stockwise-dev/agingprov/internal/table"
)

// StockResult is the admitted SOH lines plus counts of what was filtered.
type StockResult struct {
	Lines        []model.StockLine
	SeasonColumn string
	// LocationColumn is the SOH column used as the combination join key.
	LocationColumn string

	ExcludedGroup int // GROUP_NAME is an excluded brand group
	NotConsidered int // AR Comments is not "Consider"
	Exited        int // brand mapped to Closed_status "Exit"
	CoercedCosts  int // admitted lines whose NETTOTAL_COST was blank or malformed
}

// LoadStock admits SOH rows, joins them to the mapping and standardizes
// their seasons. A missing required column fails the whole load.
func LoadStock(t *table.Table, mappings Mappings, excludedGroups []string) (StockResult, error) {
	if err := t.Require(sohRequired...); err != nil {
		return StockResult{}, err
	}
	seasonCol, err := t.FirstOf(ColSeasonDesc, ColSeasonDescSp)
	if err != nil {
		return StockResult{}, err
	}
	locationCol := ColLocationName
	if t.Has(ColLocation) {
		locationCol = ColLocation
	}

	excluded := make(map[string]bool, len(excludedGroups))
	for _, g := range excludedGroups {
		excluded[g] = true
	}

	res := StockResult{SeasonColumn: seasonCol, LocationColumn: locationCol}
	for _, row := range t.Rows {
		group := strings.TrimSpace(t.Get(row, ColGroupName))
		if excluded[group] {
			res.ExcludedGroup++
			continue
		}
		if strings.TrimSpace(t.Get(row, ColARComments)) != ConsiderMarker {
			res.NotConsidered++
			continue
		}

		l := model.StockLine{
			GroupName:    strings.ToUpper(group),
			Location:     strings.TrimSpace(t.Get(row, locationCol)),
			LocationName: t.Get(row, ColLocationName),
			Model:        strings.TrimSpace(t.Get(row, ColModel)),
			RawSeason:    t.Get(row, seasonCol),
		}
		if mp, ok := mappings.Lookup(l.GroupName); ok {
			l.Mapped = true
			l.StdBrand = mp.StdBrand
			l.ClosedStatus = mp.ClosedStatus
		}
		if l.ClosedStatus == model.ClosureExit {
			res.Exited++
			continue
		}

		cost, ok := parseAmount(t.Get(row, ColNetCost))
		l.NetCost = cost
		l.CostCoerced = !ok
		if !ok {
			res.CoercedCosts++
		}
		l.StdSeason = season.Standardize(l.RawSeason)

		res.Lines = append(res.Lines, l)
	}
	return res, nil
}
