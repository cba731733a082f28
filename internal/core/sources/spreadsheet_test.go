package sources

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// writeWorkbook saves rows to the first sheet of a new .xlsx file.
func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func ipccRows() [][]any {
	return [][]any{
		{"Region", "Scenario", "Variable", "Unit", "Notes", 2020, 2021},
		{"World", "SSP1", "CO2", "Gt", "", 10, "abc"},
		{"Asia", "SSP2", "CH4", "Mt", "harmonized", 1.5, 2.25},
	}
}

func TestSpreadsheet_ReadsFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "R60_bulk.xlsx")
	writeWorkbook(t, path, ipccRows())

	src := openSource(t, core.SourceSpec{Key: KeyIPCC, Format: core.FormatSpreadsheet, Path: path})
	batch, err := src.Read(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Tables, 1)
	table := batch.Tables[0]
	assert.Equal(t, "R60_bulk.xlsx", table.Name)
	assert.Equal(t, []string{"Region", "Scenario", "Variable", "Unit", "Notes", "2020", "2021"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "10", table.Rows[0][5])
	assert.Equal(t, "abc", table.Rows[0][6])
	assert.Equal(t, "2.25", table.Rows[1][6])
}

func TestSpreadsheet_Missing(t *testing.T) {
	src := openSource(t, core.SourceSpec{Key: KeyIPCC, Format: core.FormatSpreadsheet, Path: filepath.Join(t.TempDir(), "R60_bulk.xls")})
	_, err := src.Read(context.Background())
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSpreadsheet_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	writeFile(t, path, "this is not a zip archive")

	src := openSource(t, core.SourceSpec{Key: KeyIPCC, Format: core.FormatSpreadsheet, Path: path})
	_, err := src.Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid spreadsheet")
}

func TestSpreadsheet_LeadingBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padded.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Region", "Variable", 2030}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"World", "CO2", 7}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	src := openSource(t, core.SourceSpec{Key: KeyIPCC, Format: core.FormatSpreadsheet, Path: path})
	batch, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Region", batch.Tables[0].Header[0])
	assert.Len(t, batch.Tables[0].Rows, 1)
}

func TestBuiltin_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "R60_bulk.xlsx")
	writeWorkbook(t, xlsx, ipccRows())

	wide := filepath.Join(dir, "SSP_CMIP6_201811.csv")
	writeFile(t, wide, "MODEL,SCENARIO,REGION,VARIABLE,UNIT,2015,2020\n"+
		"AIM/CGE,SSP1-19,World,CO2,Mt CO2/yr,35000,30000\n")

	longDir := filepath.Join(dir, "long")
	specs := Builtin(Paths{Spreadsheet: xlsx, WideCSV: wide, LongCSV: longDir})
	require.Len(t, specs, 3)

	sources, err := core.OpenSources(specs, core.Deps{})
	require.NoError(t, err)

	ds, err := core.NewLoader(sources, nil, nil).Load(context.Background())
	require.NoError(t, err)

	// IPCC: 2 rows x 2 years minus one non-numeric cell; SSP: 2 years.
	assert.Len(t, ds.Observations, 5)
	require.Len(t, ds.Sources, 3)
	assert.Equal(t, core.StatusLoaded, ds.Sources[0].Status)
	assert.Equal(t, core.StatusLoaded, ds.Sources[1].Status)
	assert.Equal(t, core.StatusSkipped, ds.Sources[2].Status, "missing long path is optional")

	providers, err := core.Distinct(ds.Observations, schema.FieldProvider, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AIM/CGE", schema.IPCCProvider}, providers)
}

func TestBuiltin_MissingSpreadsheetFailsLoad(t *testing.T) {
	specs := Builtin(Paths{Spreadsheet: filepath.Join(t.TempDir(), "R60_bulk.xls")})

	sources, err := core.OpenSources(specs, core.Deps{})
	require.NoError(t, err)

	_, err = core.NewLoader(sources, nil, nil).Load(context.Background())
	var loadErr *core.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
