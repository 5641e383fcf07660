// Package pipeline runs one provision computation end to end over loaded
// input tables.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stockwise-dev/agingprov/internal/aggregate"
	"github.com/stockwise-dev/agingprov/internal/config"
	"github.com/stockwise-dev/agingprov/internal/ingest"
	"github.com/stockwise-dev/agingprov/internal/ledger"
	"github.com/stockwise-dev/agingprov/internal/model"
	"github.com/stockwise-dev/agingprov/internal/rules"
	"github.com/stockwise-dev/agingprov/internal/season"
	"github.com/stockwise-dev/agingprov/internal/table"
)

// ErrInvalidEntry is returned when a built GL entry set fails validation.
var ErrInvalidEntry = errors.New("invalid GL entry")

// Inputs are the tables a run reads. Balances may be nil.
type Inputs struct {
	SOH          *table.Table
	Mapping      *table.Table
	Combinations *table.Table
	Balances     *table.Table
}

// Result is everything a run produces.
type Result struct {
	Lines          []model.StockLine
	Layout         season.Layout
	Stock          ingest.StockResult
	Report         aggregate.Report
	Diagnostics    aggregate.Diagnostics
	Entry          []model.GLEntry
	Diff           []model.GLEntry
	Balances       []model.Balance
	Reconciliation ledger.Reconciliation
}

// Service computes the aging provision for a config.
type Service struct {
	cfg config.Config
	log *zap.Logger
}

// NewService creates a pipeline Service. A nil logger discards output.
func NewService(cfg config.Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, log: log}
}

// Accounts returns the GL accounts the service books to.
func (s *Service) Accounts() ledger.Accounts {
	return ledger.Accounts{
		Provision: s.cfg.GL.ProvisionAccount,
		Reserve:   s.cfg.GL.ReserveAccount,
	}
}

// Run computes the provision, the GL entries and the diagnostics. Missing
// required columns abort the run before anything is computed.
func (s *Service) Run(in Inputs) (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	mappings, err := ingest.LoadMappings(in.Mapping)
	if err != nil {
		return nil, fmt.Errorf("loading mapping: %w", err)
	}
	combos, err := ingest.LoadCombinations(in.Combinations)
	if err != nil {
		return nil, fmt.Errorf("loading combinations: %w", err)
	}
	balances, err := ingest.LoadBalances(in.Balances)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}
	stock, err := ingest.LoadStock(in.SOH, mappings, s.cfg.Exclusions.BrandGroups)
	if err != nil {
		return nil, fmt.Errorf("loading stock: %w", err)
	}
	s.log.Info("stock loaded",
		zap.Int("lines", len(stock.Lines)),
		zap.Int("excluded_group", stock.ExcludedGroup),
		zap.Int("not_considered", stock.NotConsidered),
		zap.Int("exited", stock.Exited),
		zap.String("season_column", stock.SeasonColumn),
		zap.String("location_column", stock.LocationColumn))
	if stock.CoercedCosts > 0 {
		s.log.Warn("cost cells coerced to zero", zap.Int("count", stock.CoercedCosts))
	}
	if mappings.Duplicates > 0 {
		s.log.Warn("duplicate GROUP_NAME rows in mapping", zap.Int("count", mappings.Duplicates))
	}

	layout := season.NewLayout(stdSeasons(stock.Lines),
		s.cfg.Buckets.FirstBucketSeasons, s.cfg.Buckets.SentinelsInFirstBucket)
	s.log.Info("bucket layout",
		zap.Int("first_bucket_seasons", s.cfg.Buckets.FirstBucketSeasons),
		zap.Bool("sentinels_in_first_bucket", s.cfg.Buckets.SentinelsInFirstBucket),
		zap.Strings("bucket1", layout.Seasons(model.Bucket1)),
		zap.Strings("bucket2", layout.Seasons(model.Bucket2)),
		zap.Strings("bucket3", layout.Seasons(model.Bucket3)),
		zap.Strings("bucket4", layout.Seasons(model.Bucket4)))
	lines := make([]model.StockLine, len(stock.Lines))
	for i, l := range stock.Lines {
		l.Bucket = layout.BucketOf(l.StdSeason)
		lines[i] = l
	}

	lines = rules.NewEngine(s.cfg).ScoreAll(lines)
	lines = ledger.AttachCodes(lines, combos)

	acct := s.Accounts()
	groups := ledger.GroupTotals(lines)
	entry := ledger.BuildEntry(groups, acct)
	diff := ledger.BuildDiff(groups, balances, acct)
	if err := check("completed entry", entry, acct); err != nil {
		return nil, err
	}
	if err := check("diff entry", diff, acct); err != nil {
		return nil, err
	}

	rec := ledger.Reconcile(entry, diff, balances, acct)
	if !rec.OK {
		s.log.Warn("reconciliation mismatch",
			zap.String("entry_reserve", rec.EntryReserve.String()),
			zap.String("diff_reserve", rec.DiffReserve.String()),
			zap.String("existing", rec.ExistingTotal.String()))
	}

	res := &Result{
		Lines:    lines,
		Layout:   layout,
		Stock:    stock,
		Report:   aggregate.Summarize(lines),
		Entry:    entry,
		Diff:     diff,
		Balances: balances,
		Diagnostics: aggregate.Diagnose(lines, aggregate.DiagnoseInput{
			MappingBrands:     mappings.Brands(),
			DuplicateMappings: mappings.Duplicates,
			ExcludedModels:    s.cfg.Exclusions.Models,
		}),
		Reconciliation: rec,
	}
	s.log.Info("provision computed",
		zap.String("net_cost", res.Report.Total.NetCost.String()),
		zap.String("total", res.Report.Total.Total.String()),
		zap.Int("entry_rows", len(entry)),
		zap.Int("diff_rows", len(diff)),
		zap.Int("missing_combinations", len(res.Diagnostics.MissingCombinations)))
	return res, nil
}

func stdSeasons(lines []model.StockLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.StdSeason
	}
	return out
}

func check(name string, entries []model.GLEntry, acct ledger.Accounts) error {
	errs := ledger.Validate(entries, acct)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %s (%d problems)", ErrInvalidEntry, name, errs[0].Error(), len(errs))
}
