// Package rules computes the provision for a stock line: a policy amount
// from the line's age bucket, then at most one override from a priority
// ordered rule list.
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/stockwise-dev/agingprov/internal/config"
	"github.com/stockwise-dev/agingprov/internal/model"
)

// Rule names recorded on scored lines.
const (
	RuleExcludedModel   = "excluded-model"
	RuleBrandOverride   = "brand-override"
	RuleClosedOther     = "closed-other"
	RuleLeftoverClosed  = "leftover-closed"
	RuleLeftoverRunning = "leftover-running"
	RuleDamage          = "damage"
)

// Rule is a predicate and the effect applied when it is the highest
// priority match for a line.
type Rule struct {
	Name  string
	Match func(l model.StockLine) bool
	Apply func(l *model.StockLine)
}

// Engine scores stock lines under one configuration.
type Engine struct {
	bucketRates      map[model.Bucket]decimal.Decimal
	continuityFactor decimal.Decimal
	excludedModels   map[string]bool
	rules            []Rule
}

// NewEngine builds the rule list from cfg.
func NewEngine(cfg config.Config) *Engine {
	e := &Engine{
		bucketRates: map[model.Bucket]decimal.Decimal{
			model.Bucket1: config.Dec(cfg.Buckets.Rates.Bucket1),
			model.Bucket2: config.Dec(cfg.Buckets.Rates.Bucket2),
			model.Bucket3: config.Dec(cfg.Buckets.Rates.Bucket3),
			model.Bucket4: config.Dec(cfg.Buckets.Rates.Bucket4),
		},
		continuityFactor: config.Dec(cfg.Buckets.ContinuityFactor),
		excludedModels:   make(map[string]bool, len(cfg.Exclusions.Models)),
	}
	for _, m := range cfg.Exclusions.Models {
		e.excludedModels[m] = true
	}

	// Keys match the standardized brand exactly.
	overrides := make(map[string]decimal.Decimal, len(cfg.BrandOverrides))
	for brand, rate := range cfg.BrandOverrides {
		overrides[brand] = config.Dec(rate)
	}

	damage := config.Dec(cfg.Rates.Damage)
	leftoverClosed := config.Dec(cfg.Rates.LeftoverClosed)
	leftoverRunning := config.Dec(cfg.Rates.LeftoverRunning)
	closedOther := config.Dec(cfg.Rates.ClosedOther)

	// Highest priority first.
	e.rules = []Rule{
		{
			Name:  RuleExcludedModel,
			Match: func(l model.StockLine) bool { return e.excludedModels[l.Model] },
			Apply: zeroProvision,
		},
		{
			Name: RuleBrandOverride,
			Match: func(l model.StockLine) bool {
				_, ok := overrides[l.StdBrand]
				return ok
			},
			Apply: func(l *model.StockLine) {
				topUp(l, overrides[l.StdBrand])
			},
		},
		{
			Name: RuleClosedOther,
			Match: func(l model.StockLine) bool {
				return l.IsClosed() && l.Category != model.CategoryLeftover && l.Category != model.CategoryDamage
			},
			Apply: func(l *model.StockLine) { topUp(l, closedOther) },
		},
		{
			Name: RuleLeftoverClosed,
			Match: func(l model.StockLine) bool {
				return l.Category == model.CategoryLeftover && l.IsClosed()
			},
			Apply: func(l *model.StockLine) { topUp(l, leftoverClosed) },
		},
		{
			Name: RuleLeftoverRunning,
			Match: func(l model.StockLine) bool {
				return l.Category == model.CategoryLeftover && !l.IsClosed()
			},
			Apply: func(l *model.StockLine) { topUp(l, leftoverRunning) },
		},
		{
			Name:  RuleDamage,
			Match: func(l model.StockLine) bool { return l.Category == model.CategoryDamage },
			Apply: func(l *model.StockLine) { topUp(l, damage) },
		},
	}
	return e
}

// Rules returns the rule list in priority order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Score returns l with category, policy and override amounts filled in.
// l.Bucket must already be assigned.
func (e *Engine) Score(l model.StockLine) model.StockLine {
	l.Category = Categorize(l.LocationName)
	l.PolicyRate = e.bucketRates[l.Bucket]
	l.ContinuityFactor = e.continuityFactor
	l.PolicyAmount = l.NetCost.Mul(l.PolicyRate).Mul(l.ContinuityFactor)
	l.Additional = decimal.Zero
	l.Rule = ""

	for _, r := range e.rules {
		if r.Match(l) {
			r.Apply(&l)
			l.Rule = r.Name
			break
		}
	}

	l.Total = l.PolicyAmount.Add(l.Additional)
	return l
}

// ScoreAll scores every line. The input slice is not modified.
func (e *Engine) ScoreAll(lines []model.StockLine) []model.StockLine {
	out := make([]model.StockLine, len(lines))
	for i, l := range lines {
		out[i] = e.Score(l)
	}
	return out
}

// topUp sets the additional provision so that the line's total equals
// NetCost * rate.
func topUp(l *model.StockLine, rate decimal.Decimal) {
	l.Additional = l.NetCost.Mul(rate).Sub(l.PolicyAmount)
}

func zeroProvision(l *model.StockLine) {
	l.PolicyRate = decimal.Zero
	l.ContinuityFactor = decimal.Zero
	l.PolicyAmount = decimal.Zero
	l.Additional = decimal.Zero
}
