package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVReader_Read(t *testing.T) {
	in := "\ufeffGROUP_NAME, NETTOTAL_COST ,Model\nzara,100.5,Retail\n,,\nmango,,Consignment\n"
	tbl, err := CSVReader{}.Read("soh", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"GROUP_NAME", "NETTOTAL_COST", "Model"}, tbl.Header)
	require.Equal(t, 2, tbl.Len(), "blank rows are dropped")
	assert.Equal(t, "zara", tbl.Get(tbl.Rows[0], "GROUP_NAME"))
	assert.Equal(t, "100.5", tbl.Get(tbl.Rows[0], "NETTOTAL_COST"))
	assert.Equal(t, "", tbl.Get(tbl.Rows[1], "NETTOTAL_COST"))
	assert.Equal(t, "", tbl.Get(tbl.Rows[1], "NOPE"))
}

func TestCSVReader_Empty(t *testing.T) {
	tbl, err := CSVReader{}.Read("soh", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Has("GROUP_NAME"))
}

func TestTable_ShortRow(t *testing.T) {
	tbl := New("t", []string{"a", "b", "c"}, [][]string{{"1"}})
	assert.Equal(t, "1", tbl.Get(tbl.Rows[0], "a"))
	assert.Equal(t, "", tbl.Get(tbl.Rows[0], "c"))
}

func TestTable_Require(t *testing.T) {
	tbl := New("mapping", []string{"GROUP_NAME", "Std Brand"}, nil)
	require.NoError(t, tbl.Require("GROUP_NAME", "Std Brand"))

	err := tbl.Require("GROUP_NAME", "Closed_status")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)

	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "mapping", mce.Table)
	assert.Equal(t, "Closed_status", mce.Column)
	assert.Contains(t, err.Error(), "Closed_status")
}

func TestTable_FirstOf(t *testing.T) {
	tbl := New("soh", []string{"SEASON DESC", "SEASON_DESC"}, nil)
	col, err := tbl.FirstOf("SEASON_DESC", "SEASON DESC")
	require.NoError(t, err)
	assert.Equal(t, "SEASON_DESC", col)

	tbl = New("soh", []string{"SEASON DESC"}, nil)
	col, err = tbl.FirstOf("SEASON_DESC", "SEASON DESC")
	require.NoError(t, err)
	assert.Equal(t, "SEASON DESC", col)

	_, err = New("soh", []string{"X"}, nil).FirstOf("SEASON_DESC", "SEASON DESC")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestTable_DuplicateHeaderFirstWins(t *testing.T) {
	tbl := New("t", []string{"a", "a"}, [][]string{{"first", "second"}})
	assert.Equal(t, "first", tbl.Get(tbl.Rows[0], "a"))
}

func TestXLSXReader_Read(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"s1", "s2", "s3", "s4", "Closing balance"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{101, 20, 3, 4, -1234.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{101, 20, 3, 5, 10}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	tbl, err := XLSXReader{}.Read("balances", &buf)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "101", tbl.Get(tbl.Rows[0], "s1"))
	assert.Equal(t, "-1234.5", tbl.Get(tbl.Rows[0], "Closing balance"))
	assert.Equal(t, "5", tbl.Get(tbl.Rows[1], "s4"))
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("csv"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("CSV"))
	assert.NotNil(t, r.Get(".xlsx"))
	assert.NotNil(t, r.Get("XLSX"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(CSVReader{})
	assert.Panics(t, func() { r.Register(CSVReader{}) })
}

func TestRegistry_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.CSV")
	require.NoError(t, os.WriteFile(path, []byte("GROUP_NAME,Std Brand,Closed_status\nzara,ZARA,\n"), 0o644))

	tbl, err := DefaultRegistry().ReadFile("mapping", path)
	require.NoError(t, err)
	assert.Equal(t, "mapping", tbl.Name)
	assert.Equal(t, 1, tbl.Len())
}

func TestRegistry_ReadFileUnsupported(t *testing.T) {
	_, err := DefaultRegistry().ReadFile("soh", filepath.Join(t.TempDir(), "soh.json"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegistry_ReadFileMissing(t *testing.T) {
	_, err := DefaultRegistry().ReadFile("soh", filepath.Join(t.TempDir(), "soh.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
