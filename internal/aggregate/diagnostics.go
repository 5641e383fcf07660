package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/model"
	"github.com/stockwise-dev/agingprov/internal/season"
)

// BucketSeason is one distinct (bucket, standardized season) pair.
type BucketSeason struct {
	Bucket model.Bucket
	Season string
}

// SeasonPair is one distinct (raw, standardized) season pair.
type SeasonPair struct {
	Raw string
	Std string
}

// Diagnostics are the review tables produced alongside the provision.
type Diagnostics struct {
	BucketSeasons []BucketSeason
	Seasons       []SeasonPair

	MissingCombinations    []model.StockLine
	MissingCombinationCost decimal.Decimal

	// MissingBrands are mapping brands with no line in the stock extract.
	MissingBrands     []string
	DuplicateMappings int
	UnmappedCost      decimal.Decimal

	UnknownSeasons []Summary
	BlankSeasons   []Summary
}

// DiagnoseInput carries the reference-data facts the diagnostics need.
type DiagnoseInput struct {
	MappingBrands     []string
	DuplicateMappings int
	ExcludedModels    []string
}

// Diagnose derives the review tables from coded, scored lines.
func Diagnose(lines []model.StockLine, in DiagnoseInput) Diagnostics {
	d := Diagnostics{
		BucketSeasons:          BucketCrosswalk(lines),
		Seasons:                SeasonCrosswalk(lines),
		MissingCombinations:    MissingCombinations(lines),
		MissingBrands:          MissingBrands(in.MappingBrands, lines),
		DuplicateMappings:      in.DuplicateMappings,
		MissingCombinationCost: decimal.Zero,
		UnmappedCost:           decimal.Zero,
	}
	for _, l := range d.MissingCombinations {
		d.MissingCombinationCost = d.MissingCombinationCost.Add(l.NetCost)
	}
	for _, l := range lines {
		if !l.Mapped {
			d.UnmappedCost = d.UnmappedCost.Add(l.NetCost)
		}
	}

	excluded := make(map[string]bool, len(in.ExcludedModels))
	for _, m := range in.ExcludedModels {
		excluded[m] = true
	}
	d.UnknownSeasons = ByBrand(Filter(lines, func(l model.StockLine) bool {
		return l.StdSeason == season.Unknown && !excluded[l.Model]
	}))
	d.BlankSeasons = ByBrand(Filter(lines, func(l model.StockLine) bool {
		return strings.TrimSpace(l.RawSeason) == ""
	}))
	return d
}

// BucketCrosswalk lists the distinct bucket and season pairs, ordered by
// bucket then season.
func BucketCrosswalk(lines []model.StockLine) []BucketSeason {
	seen := make(map[BucketSeason]bool)
	var out []BucketSeason
	for _, l := range lines {
		p := BucketSeason{Bucket: l.Bucket, Season: l.StdSeason}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return out[i].Bucket < out[j].Bucket
		}
		return out[i].Season < out[j].Season
	})
	return out
}

// SeasonCrosswalk lists the distinct raw to standardized season pairs,
// ordered by standardized season then raw text.
func SeasonCrosswalk(lines []model.StockLine) []SeasonPair {
	seen := make(map[SeasonPair]bool)
	var out []SeasonPair
	for _, l := range lines {
		p := SeasonPair{Raw: l.RawSeason, Std: l.StdSeason}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Std != out[j].Std {
			return out[i].Std < out[j].Std
		}
		return out[i].Raw < out[j].Raw
	})
	return out
}

// MissingCombinations returns lines carrying cost that found no GL
// coordinate.
func MissingCombinations(lines []model.StockLine) []model.StockLine {
	return Filter(lines, func(l model.StockLine) bool {
		return !l.NetCost.IsZero() && !l.HasCombination
	})
}

// MissingBrands returns the mapping brands that no line carries, in
// mapping order.
func MissingBrands(mappingBrands []string, lines []model.StockLine) []string {
	present := make(map[string]bool)
	for _, l := range lines {
		present[l.StdBrand] = true
	}
	var out []string
	for _, b := range mappingBrands {
		if !present[b] {
			out = append(out, b)
		}
	}
	return out
}
