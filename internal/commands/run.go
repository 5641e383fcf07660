package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stockwise-dev/agingprov/internal/aggregate"
	"github.com/stockwise-dev/agingprov/internal/config"
	"github.com/stockwise-dev/agingprov/internal/export"
	"github.com/stockwise-dev/agingprov/internal/pipeline"
	"github.com/stockwise-dev/agingprov/internal/runlog"
	"github.com/stockwise-dev/agingprov/internal/table"
	"github.com/stockwise-dev/agingprov/pkg/logger"
)

var decimalHundred = decimal.NewFromInt(100)

type runOptions struct {
	soh          string
	mapping      string
	combinations string
	balances     string
	configPath   string
	outDir       string
	envFile      string
	overrides    []string
	verbose      bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the aging provision and write the GL entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(opts.verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			return runProvision(cmd.OutOrStdout(), opts, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.soh, "soh", "", "stock-on-hand extract (.csv or .xlsx, required)")
	_ = cmd.MarkFlagRequired("soh")
	f.StringVar(&opts.mapping, "mapping", "", "brand mapping file (default from AGINGPROV_MAPPING_PATH)")
	f.StringVar(&opts.combinations, "combinations", "", "GL combinations file (default from AGINGPROV_COMBINATIONS_PATH)")
	f.StringVar(&opts.balances, "balances", "", "existing closing balances file")
	f.StringVar(&opts.configPath, "config", "", "policy config (default from AGINGPROV_CONFIG)")
	f.StringVar(&opts.outDir, "out", "", "output directory (default from AGINGPROV_OUTPUT_DIR)")
	f.StringVar(&opts.envFile, "env-file", "", "dotenv file with AGINGPROV_* defaults")
	f.StringArrayVar(&opts.overrides, "override", nil, "brand override as BRAND=RATE (repeatable)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "human-readable debug logging")

	return cmd
}

func runProvision(out io.Writer, opts runOptions, log *zap.Logger) error {
	paths, err := config.LoadPaths(opts.envFile)
	if err != nil {
		return err
	}
	mappingPath := firstNonEmpty(opts.mapping, paths.Mapping)
	combinationsPath := firstNonEmpty(opts.combinations, paths.Combinations)
	outDir := firstNonEmpty(opts.outDir, paths.OutputDir)

	cfg, err := loadConfig(opts.configPath, paths.Config)
	if err != nil {
		return err
	}
	for _, o := range opts.overrides {
		brand, rate, err := parseOverride(o)
		if err != nil {
			return err
		}
		cfg = cfg.WithOverride(brand, rate)
	}

	reg := table.DefaultRegistry()
	in := pipeline.Inputs{}
	if in.SOH, err = reg.ReadFile("SOH", opts.soh); err != nil {
		return err
	}
	if in.Mapping, err = reg.ReadFile("mapping", mappingPath); err != nil {
		return err
	}
	if in.Combinations, err = reg.ReadFile("combinations", combinationsPath); err != nil {
		return err
	}
	if opts.balances != "" {
		if in.Balances, err = reg.ReadFile("balances", opts.balances); err != nil {
			return err
		}
	}
	log.Debug("inputs read",
		zap.String("soh", opts.soh),
		zap.String("mapping", mappingPath),
		zap.String("combinations", combinationsPath),
		zap.String("balances", opts.balances))

	res, err := pipeline.NewService(cfg, logger.Named(log, "pipeline")).Run(in)
	if err != nil {
		return err
	}

	written, err := export.WriteAll(outDir, res)
	if err != nil {
		return err
	}
	for _, p := range written {
		log.Info("wrote output", zap.String("path", p))
	}
	if err := runlog.Append(outDir, runlog.Entry{
		Timestamp:  time.Now().UTC(),
		SOHFile:    opts.soh,
		Lines:      len(res.Lines),
		NetCost:    res.Report.Total.NetCost,
		Total:      res.Report.Total.Total,
		EntryRows:  len(res.Entry),
		DiffRows:   len(res.Diff),
		Reconciled: res.Reconciliation.OK,
	}); err != nil {
		log.Warn("run log not updated", zap.Error(err))
	}

	printTotals(out, res)
	return nil
}

// loadConfig reads the flag path if given, otherwise the default path when
// it exists, otherwise the built-in defaults.
func loadConfig(flagPath, defaultPath string) (config.Config, error) {
	if flagPath != "" {
		return config.Load(flagPath)
	}
	cfg, err := config.Load(defaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func parseOverride(s string) (string, float64, error) {
	brand, rate, ok := strings.Cut(s, "=")
	brand = strings.TrimSpace(brand)
	if !ok || brand == "" {
		return "", 0, fmt.Errorf("invalid override %q: want BRAND=RATE", s)
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid override rate %q: %w", s, err)
	}
	return brand, r, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printTotals(w io.Writer, res *pipeline.Result) {
	t := res.Report.Total
	fmt.Fprintf(w, "Lines:             %d\n", t.Lines)
	fmt.Fprintf(w, "Net cost:          %s\n", t.NetCost.StringFixed(2))
	fmt.Fprintf(w, "Policy provision:  %s\n", t.Policy.StringFixed(2))
	fmt.Fprintf(w, "Additional:        %s\n", t.Additional.StringFixed(2))
	fmt.Fprintf(w, "Total provision:   %s\n", t.Total.StringFixed(2))
	fmt.Fprintf(w, "Coverage:          %s\n", formatCoverage(t))

	d := res.Diagnostics
	if n := len(d.MissingCombinations); n > 0 {
		fmt.Fprintf(w, "Missing combinations: %d lines, cost %s\n", n, d.MissingCombinationCost.StringFixed(2))
	}
	if !res.Reconciliation.OK {
		fmt.Fprintln(w, "WARNING: entry and diff do not reconcile")
	}
}

func formatCoverage(s aggregate.Summary) string {
	if !s.Coverage.Valid {
		return "n/a"
	}
	return s.Coverage.Decimal.Mul(decimalHundred).StringFixed(2) + "%"
}
