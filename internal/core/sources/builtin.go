package sources

import (
	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// Keys of the built-in sources.
const (
	KeyIPCC     = "ipcc_r6"
	KeySSP      = "ssp_cmip6"
	KeyLongCSV  = "long_csv"
	KeyPostgres = "postgres"
)

// Paths locates the built-in inputs. Empty optional paths disable the
// corresponding source.
type Paths struct {
	Spreadsheet string // mandatory IPCC R6 workbook
	WideCSV     string // optional SSP CMIP6 export
	LongCSV     string // optional long file or directory
	Table       string // optional Postgres table, used only with a database
}

// Builtin returns the default source list in merge order: the IPCC
// spreadsheet, the SSP wide CSV, then the optional long inputs.
func Builtin(p Paths) []core.SourceSpec {
	specs := []core.SourceSpec{
		{
			Key:      KeyIPCC,
			Label:    "IPCC AR6 R6 bulk",
			Format:   core.FormatSpreadsheet,
			Path:     p.Spreadsheet,
			Required: true,
			Provider: schema.IPCCProvider,
			Columns:  schema.IPCCColumns,
		},
	}

	if p.WideCSV != "" {
		specs = append(specs, core.SourceSpec{
			Key:             KeySSP,
			Label:           "SSP CMIP6",
			Format:          core.FormatWideCSV,
			Path:            p.WideCSV,
			Columns:         schema.SSPColumns,
			RequiredColumns: schema.SSPRequiredColumns,
		})
	}

	if p.LongCSV != "" {
		specs = append(specs, core.SourceSpec{
			Key:             KeyLongCSV,
			Label:           "Long CSV",
			Format:          core.FormatLongCSV,
			Path:            p.LongCSV,
			DefaultRegion:   schema.DefaultRegion,
			DefaultScenario: schema.DefaultScenario,
		})
	}

	if p.Table != "" {
		specs = append(specs, core.SourceSpec{
			Key:             KeyPostgres,
			Label:           "Postgres " + p.Table,
			Format:          core.FormatPostgres,
			Path:            p.Table,
			DefaultRegion:   schema.DefaultRegion,
			DefaultScenario: schema.DefaultScenario,
		})
	}

	return specs
}
