package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full per-run configuration surface. It is loaded once and
// passed by value through the pipeline.
type Config struct {
	Buckets        BucketConfig       `yaml:"buckets"`
	Rates          RatesConfig        `yaml:"rates"`
	BrandOverrides map[string]float64 `yaml:"brand_overrides,omitempty"`
	Exclusions     ExclusionConfig    `yaml:"exclusions"`
	GL             GLConfig           `yaml:"gl"`
}

// BucketConfig controls how seasons are partitioned into age buckets.
type BucketConfig struct {
	FirstBucketSeasons int `yaml:"first_bucket_seasons"`
	// SentinelsInFirstBucket places "Unknown" in bucket1 when true and in
	// bucket4 when false. "Continuity" is always in bucket1.
	SentinelsInFirstBucket bool        `yaml:"sentinels_in_first_bucket"`
	Rates                  BucketRates `yaml:"rates"`
	ContinuityFactor       float64     `yaml:"continuity_factor"`
}

// BucketRates are the aging-policy rates per bucket.
type BucketRates struct {
	Bucket1 float64 `yaml:"bucket1"`
	Bucket2 float64 `yaml:"bucket2"`
	Bucket3 float64 `yaml:"bucket3"`
	Bucket4 float64 `yaml:"bucket4"`
}

// RatesConfig holds the category and closure override rates.
type RatesConfig struct {
	Damage          float64 `yaml:"damage"`
	LeftoverClosed  float64 `yaml:"leftover_closed"`
	LeftoverRunning float64 `yaml:"leftover_running"`
	ClosedOther     float64 `yaml:"closed_other"`
}

// ExclusionConfig lists the business models and brand groups that are
// carved out of the provision.
type ExclusionConfig struct {
	Models      []string `yaml:"models"`
	BrandGroups []string `yaml:"brand_groups"`
}

// GLConfig holds the fixed fifth account segment of each side of the entry.
type GLConfig struct {
	ProvisionAccount string `yaml:"provision_account"`
	ReserveAccount   string `yaml:"reserve_account"`
}

// Load reads a YAML config file from disk and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the policy used when no config file is supplied.
func Default() Config {
	return Config{
		Buckets: BucketConfig{
			FirstBucketSeasons:     5,
			SentinelsInFirstBucket: true,
			Rates: BucketRates{
				Bucket1: 0,
				Bucket2: 0.15,
				Bucket3: 0.50,
				Bucket4: 0.75,
			},
			ContinuityFactor: 0.40,
		},
		Rates: RatesConfig{
			Damage:          1.0,
			LeftoverClosed:  0.5,
			LeftoverRunning: 0.15,
			ClosedOther:     0.5,
		},
		Exclusions: ExclusionConfig{
			Models:      []string{"Consignment", "Guaranteed Margin", "Buying Pull - Mango"},
			BrandGroups: []string{"Aleph"},
		},
		GL: GLConfig{
			ProvisionAccount: "63002",
			ReserveAccount:   "23993",
		},
	}
}

// Validate checks ranges on every field of the configuration surface.
func (c Config) Validate() error {
	if c.Buckets.FirstBucketSeasons < 1 {
		return fmt.Errorf("%w: first_bucket_seasons must be >= 1, got %d", ErrInvalidConfig, c.Buckets.FirstBucketSeasons)
	}

	fractions := []struct {
		name  string
		value float64
	}{
		{"buckets.rates.bucket1", c.Buckets.Rates.Bucket1},
		{"buckets.rates.bucket2", c.Buckets.Rates.Bucket2},
		{"buckets.rates.bucket3", c.Buckets.Rates.Bucket3},
		{"buckets.rates.bucket4", c.Buckets.Rates.Bucket4},
		{"buckets.continuity_factor", c.Buckets.ContinuityFactor},
		{"rates.damage", c.Rates.Damage},
		{"rates.leftover_closed", c.Rates.LeftoverClosed},
		{"rates.leftover_running", c.Rates.LeftoverRunning},
		{"rates.closed_other", c.Rates.ClosedOther},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidConfig, f.name, f.value)
		}
	}

	for _, brand := range c.OverrideBrands() {
		if strings.TrimSpace(brand) == "" {
			return fmt.Errorf("%w: brand override with empty brand name", ErrInvalidConfig)
		}
		if rate := c.BrandOverrides[brand]; rate < 0 {
			return fmt.Errorf("%w: brand override %q must be >= 0, got %v", ErrInvalidConfig, brand, rate)
		}
	}

	if c.GL.ProvisionAccount == "" || c.GL.ReserveAccount == "" {
		return fmt.Errorf("%w: gl accounts must be set", ErrInvalidConfig)
	}
	if c.GL.ProvisionAccount == c.GL.ReserveAccount {
		return fmt.Errorf("%w: gl provision and reserve accounts must differ", ErrInvalidConfig)
	}
	return nil
}

// WithOverride returns a copy of c with brand set to rate. The receiver's
// map is not modified.
func (c Config) WithOverride(brand string, rate float64) Config {
	overrides := make(map[string]float64, len(c.BrandOverrides)+1)
	for k, v := range c.BrandOverrides {
		overrides[k] = v
	}
	overrides[brand] = rate
	c.BrandOverrides = overrides
	return c
}

// OverrideBrands returns the override brand names in sorted order.
func (c Config) OverrideBrands() []string {
	brands := make([]string, 0, len(c.BrandOverrides))
	for b := range c.BrandOverrides {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

// Dec converts a configured fraction to a decimal.
func Dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
