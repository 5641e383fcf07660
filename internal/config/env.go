package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Paths holds the default input and output locations. Flags on the run
// command take precedence over these.
type Paths struct {
	Config       string
	Mapping      string
	Combinations string
	OutputDir    string
}

const referenceDir = "Mapping & Combinations"

// LoadPaths reads AGINGPROV_* variables, optionally from envFile. A missing
// env file is not an error.
func LoadPaths(envFile string) (Paths, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Paths{}, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	return Paths{
		Config:       getenvWithDefault("AGINGPROV_CONFIG", "agingprov.yaml"),
		Mapping:      getenvWithDefault("AGINGPROV_MAPPING_PATH", filepath.Join(referenceDir, "mapping.xlsx")),
		Combinations: getenvWithDefault("AGINGPROV_COMBINATIONS_PATH", filepath.Join(referenceDir, "combinations.xlsx")),
		OutputDir:    getenvWithDefault("AGINGPROV_OUTPUT_DIR", "Output"),
	}, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
