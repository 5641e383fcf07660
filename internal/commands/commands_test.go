package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockwise-dev/agingprov/internal/commands"
	"github.com/stockwise-dev/agingprov/internal/config"
	"github.com/stockwise-dev/agingprov/internal/export"
	"github.com/stockwise-dev/agingprov/internal/runlog"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runArgs(outDir string, extra ...string) []string {
	args := []string{
		"run",
		"--soh", filepath.Join("testdata", "soh.csv"),
		"--mapping", filepath.Join("testdata", "mapping.csv"),
		"--combinations", filepath.Join("testdata", "combinations.csv"),
		"--balances", filepath.Join("testdata", "balances.csv"),
		"--out", outDir,
	}
	return append(args, extra...)
}

func TestRun_WritesOutputs(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "Output")
	out, err := execute(t, runArgs(outDir)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Net cost:          2550.00")
	assert.Contains(t, out, "Total provision:   450.00")
	assert.Contains(t, out, "Coverage:          17.65%")
	assert.Contains(t, out, "Missing combinations: 2 lines, cost 350.00")
	assert.NotContains(t, out, "WARNING")

	for _, name := range []string{
		export.DetailFile, export.CombinationsFile, export.EntryFile, export.DiffFile, export.AnalysisFile,
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	runs, err := runlog.Read(outDir)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 8, runs[0].Lines)
	assert.True(t, runs[0].Reconciled)

	entry, err := os.ReadFile(filepath.Join(outDir, export.EntryFile))
	require.NoError(t, err)
	assert.Contains(t, string(entry), "s1,s2,s3,s4,s5,Dr/(CR)\n")
	assert.Contains(t, string(entry), "101,20,1,1,63002,200\n")
}

func TestRun_Override(t *testing.T) {
	out, err := execute(t, runArgs(t.TempDir(), "--override", "ACME=0.5")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Total provision:   1100.00")
}

func TestRun_ConfigFile(t *testing.T) {
	cfg := config.Default()
	cfg.Buckets.FirstBucketSeasons = 1
	path := filepath.Join(t.TempDir(), "agingprov.yaml")
	require.NoError(t, config.Save(path, cfg))

	out, err := execute(t, runArgs(t.TempDir(), "--config", path)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Total provision:   498.00")
}

func TestRun_BadOverride(t *testing.T) {
	_, err := execute(t, runArgs(t.TempDir(), "--override", "ACME")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRAND=RATE")

	_, err = execute(t, runArgs(t.TempDir(), "--override", "ACME=lots")...)
	assert.Error(t, err)
}

func TestRun_MissingColumn(t *testing.T) {
	soh := filepath.Join(t.TempDir(), "soh.csv")
	require.NoError(t, os.WriteFile(soh, []byte("GROUP_NAME,AR Comments,LOCATION_NAME,Model,SEASON_DESC\n"), 0o644))

	_, err := execute(t,
		"run", "--soh", soh,
		"--mapping", filepath.Join("testdata", "mapping.csv"),
		"--combinations", filepath.Join("testdata", "combinations.csv"),
		"--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NETTOTAL_COST")
}

func TestRun_RequiresSOH(t *testing.T) {
	_, err := execute(t, "run", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestSeason(t *testing.T) {
	out, err := execute(t, "season", "Summer 2023", "wa21", "Basics")
	require.NoError(t, err)
	assert.Equal(t, "Summer 2023\tSS23\nwa21\tAW21\nBasics\tContinuity\n", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agingprov.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = execute(t, "config", "init", path)
	assert.Error(t, err, "refuses to overwrite")

	_, err = execute(t, "config", "init", path, "--force")
	assert.NoError(t, err)
}
