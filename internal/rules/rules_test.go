package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockwise-dev/agingprov/internal/config"
	"github.com/stockwise-dev/agingprov/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func line(cost string, bucket model.Bucket, location string, status model.ClosureStatus) model.StockLine {
	return model.StockLine{
		StdBrand:     "ACME",
		NetCost:      dec(cost),
		Bucket:       bucket,
		LocationName: location,
		ClosedStatus: status,
		Model:        "Outright",
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want model.LocationCategory
	}{
		{"Riyadh Park Store", model.CategoryStoreOnlineWH},
		{"Online WH", model.CategoryStoreOnlineWH},
		{"", model.CategoryStoreOnlineWH},
		{"DAMAGE WH", model.CategoryDamage},
		{"Leftover Jeddah", model.CategoryLeftover},
		{"Al Sulay Warehouse", model.CategoryLeftover},
		{"Leftover Damage", model.CategoryDamage},
		{"Sulay Damage", model.CategoryLeftover},
		{"Sulay Leftover Damage", model.CategoryLeftover},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.name), "Categorize(%q)", tt.name)
	}
}

func TestScore_PolicyByBucket(t *testing.T) {
	e := NewEngine(config.Default())
	tests := []struct {
		bucket model.Bucket
		rate   string
		policy string
	}{
		{model.Bucket1, "0", "0"},
		{model.Bucket2, "0.15", "60"},
		{model.Bucket3, "0.5", "200"},
		{model.Bucket4, "0.75", "300"},
	}
	for _, tt := range tests {
		got := e.Score(line("1000", tt.bucket, "Mall Store", ""))
		assertDec(t, tt.rate, got.PolicyRate, string(tt.bucket)+" rate")
		assertDec(t, "0.4", got.ContinuityFactor, string(tt.bucket)+" continuity")
		assertDec(t, tt.policy, got.PolicyAmount, string(tt.bucket)+" policy")
		assertDec(t, "0", got.Additional, string(tt.bucket)+" additional")
		assertDec(t, tt.policy, got.Total, string(tt.bucket)+" total")
		assert.Empty(t, got.Rule)
		assert.Equal(t, model.CategoryStoreOnlineWH, got.Category)
	}
}

func TestScore_DamageBucket1(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("1000", model.Bucket1, "Damage Store", ""))

	assert.Equal(t, model.CategoryDamage, got.Category)
	assertDec(t, "0", got.PolicyAmount, "policy")
	assertDec(t, "1000", got.Additional, "additional")
	assertDec(t, "1000", got.Total, "total")
	assert.Equal(t, RuleDamage, got.Rule)
}

func TestScore_DamageTopsUpPolicy(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("1000", model.Bucket4, "damage", ""))

	assertDec(t, "300", got.PolicyAmount, "policy")
	assertDec(t, "700", got.Additional, "additional")
	assertDec(t, "1000", got.Total, "total")
}

func TestScore_LeftoverClosed(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("500", model.Bucket1, "Leftover WH", model.ClosureClosed))

	assertDec(t, "250", got.Additional, "additional")
	assertDec(t, "250", got.Total, "total")
	assert.Equal(t, RuleLeftoverClosed, got.Rule)
}

func TestScore_LeftoverRunning(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("1000", model.Bucket2, "sulay", "Running"))

	// policy 1000*0.15*0.4 = 60, target 150
	assertDec(t, "60", got.PolicyAmount, "policy")
	assertDec(t, "90", got.Additional, "additional")
	assertDec(t, "150", got.Total, "total")
	assert.Equal(t, RuleLeftoverRunning, got.Rule)
}

func TestScore_ClosedOther(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("1000", model.Bucket3, "Mall Store", model.ClosureClosed))

	assertDec(t, "200", got.PolicyAmount, "policy")
	assertDec(t, "300", got.Additional, "additional")
	assertDec(t, "500", got.Total, "total")
	assert.Equal(t, RuleClosedOther, got.Rule)
}

func TestScore_ClosedDamageUsesDamageRate(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("100", model.Bucket1, "Damage", model.ClosureClosed))
	assertDec(t, "100", got.Total, "total")
	assert.Equal(t, RuleDamage, got.Rule)
}

func TestScore_BrandOverrideReplacesCategoryRule(t *testing.T) {
	cfg := config.Default().WithOverride("X", 0.2)
	e := NewEngine(cfg)

	l := line("100", model.Bucket1, "Leftover", model.ClosureClosed)
	l.StdBrand = "X"
	without := NewEngine(config.Default()).Score(l)
	assertDec(t, "50", without.Additional, "category additional")

	got := e.Score(l)
	assertDec(t, "20", got.Additional, "override additional")
	assertDec(t, "20", got.Total, "override total")
	assert.Equal(t, RuleBrandOverride, got.Rule)
}

func TestScore_BrandOverrideKeyIsExact(t *testing.T) {
	e := NewEngine(config.Default().WithOverride("acme", 0.5))

	l := line("100", model.Bucket1, "Mall", "")
	got := e.Score(l)
	assert.Empty(t, got.Rule, "brand ACME does not match key acme")
	assertDec(t, "0", got.Total, "total")

	l.StdBrand = "acme"
	got = e.Score(l)
	assert.Equal(t, RuleBrandOverride, got.Rule)
	assertDec(t, "50", got.Total, "total")
}

func TestScore_BrandOverrideSubtractsPolicy(t *testing.T) {
	e := NewEngine(config.Default().WithOverride("ACME", 0.2))
	got := e.Score(line("100", model.Bucket4, "Mall", ""))

	// policy 100*0.75*0.4 = 30; override 100*0.2 - 30 = -10
	assertDec(t, "30", got.PolicyAmount, "policy")
	assertDec(t, "-10", got.Additional, "additional")
	assertDec(t, "20", got.Total, "total")
}

func TestScore_ExcludedModelWinsOverEverything(t *testing.T) {
	e := NewEngine(config.Default().WithOverride("ACME", 0.9))
	for _, m := range []string{"Consignment", "Guaranteed Margin", "Buying Pull - Mango"} {
		l := line("1000", model.Bucket4, "Damage Leftover", model.ClosureClosed)
		l.Model = m
		got := e.Score(l)

		assertDec(t, "0", got.PolicyRate, m+" rate")
		assertDec(t, "0", got.ContinuityFactor, m+" continuity")
		assertDec(t, "0", got.PolicyAmount, m+" policy")
		assertDec(t, "0", got.Additional, m+" additional")
		assertDec(t, "0", got.Total, m+" total")
		assert.Equal(t, RuleExcludedModel, got.Rule)
	}
}

func TestScore_ZeroCost(t *testing.T) {
	e := NewEngine(config.Default())
	got := e.Score(line("0", model.Bucket4, "Damage", model.ClosureClosed))
	assertDec(t, "0", got.Total, "total")
}

func TestScore_TotalIsPolicyPlusAdditional(t *testing.T) {
	e := NewEngine(config.Default().WithOverride("B", 0.35))
	locations := []string{"Store", "Damage", "Leftover", "Sulay"}
	statuses := []model.ClosureStatus{"", model.ClosureClosed, "Running"}
	brands := []string{"A", "B"}
	models := []string{"Outright", "Consignment"}

	for _, b := range model.Buckets {
		for _, loc := range locations {
			for _, st := range statuses {
				for _, brand := range brands {
					for _, m := range models {
						l := line("1234.56", b, loc, st)
						l.StdBrand = brand
						l.Model = m
						got := e.Score(l)
						require.True(t, got.PolicyAmount.Add(got.Additional).Equal(got.Total),
							"%s/%s/%s/%s/%s", b, loc, st, brand, m)
					}
				}
			}
		}
	}
}

func TestRules_PriorityOrder(t *testing.T) {
	names := make([]string, 0, 6)
	for _, r := range NewEngine(config.Default()).Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		RuleExcludedModel, RuleBrandOverride, RuleClosedOther,
		RuleLeftoverClosed, RuleLeftoverRunning, RuleDamage,
	}, names)
}

func TestScoreAll_DoesNotModifyInput(t *testing.T) {
	e := NewEngine(config.Default())
	in := []model.StockLine{line("100", model.Bucket4, "Store", "")}
	out := e.ScoreAll(in)

	require.Len(t, out, 1)
	assert.True(t, in[0].Total.IsZero())
	assertDec(t, "30", out[0].Total, "total")
}

func TestScore_CustomRates(t *testing.T) {
	cfg := config.Default()
	cfg.Rates.Damage = 0.8
	cfg.Buckets.ContinuityFactor = 1
	e := NewEngine(cfg)

	got := e.Score(line("100", model.Bucket2, "damage", ""))
	assertDec(t, "15", got.PolicyAmount, "policy")
	assertDec(t, "65", got.Additional, "additional")
	assertDec(t, "80", got.Total, "total")
}
