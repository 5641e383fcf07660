package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stockwise-dev/agingprov/internal/ledger"
	"github.com/stockwise-dev/agingprov/internal/pipeline"
)

// Output file names.
const (
	DetailFile       = "aging_provision.csv"
	CombinationsFile = "aging_provision_combinations.xlsx"
	EntryFile        = "completed_entry.csv"
	DiffFile         = "diff_entry.csv"
	AnalysisFile     = "provision_analysis.xlsx"
)

// WriteAll writes every output of res into dir, creating it if needed,
// and returns the paths written.
func WriteAll(dir string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{DetailFile, func(w io.Writer) error { return WriteDetail(w, res.Lines) }},
		{CombinationsFile, func(w io.Writer) error { return WriteCombinations(w, res.Lines) }},
		{EntryFile, func(w io.Writer) error { return ledger.WriteEntries(w, res.Entry) }},
		{DiffFile, func(w io.Writer) error { return ledger.WriteEntries(w, res.Diff) }},
		{AnalysisFile, func(w io.Writer) error { return WriteAnalysis(w, res) }},
	}

	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := writeFile(path, o.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
