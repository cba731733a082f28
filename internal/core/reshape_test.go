package core

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

func ipccSpec() SourceSpec {
	return SourceSpec{
		Key:      "ipcc_r6",
		Format:   FormatSpreadsheet,
		Provider: schema.IPCCProvider,
		Required: true,
		Columns:  schema.IPCCColumns,
	}
}

func TestDetectYearColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		want    []int
		wantErr bool
	}{
		{
			name:   "four digit headers",
			header: []string{"Region", "Scenario", "2020", "2030", "Notes"},
			want:   []int{2, 3},
		},
		{
			name:   "four digit preferred over short digits",
			header: []string{"Region", "1", "2020", "2021"},
			want:   []int{2, 3},
		},
		{
			name:   "fallback to any digits",
			header: []string{"Region", "1", "2", "3"},
			want:   []int{1, 2, 3},
		},
		{
			name:   "padded header",
			header: []string{"Region", " 2020 "},
			want:   []int{1},
		},
		{
			name:    "no year columns",
			header:  []string{"Region", "Scenario", "Y2020"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectYearColumns(tt.header)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("DetectYearColumns() error = %v, want validation error", err)
				}
				if err.Error() != "no year columns detected" {
					t.Errorf("error = %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectYearColumns() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DetectYearColumns() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("DetectYearColumns()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMelt_Scenario(t *testing.T) {
	table := Table{
		Name:   "R60_bulk.xls",
		Header: []string{"Region", "Scenario", "Variable", "Unit", "Notes", "2020", "2021"},
		Rows: [][]string{
			{"World", "SSP1", "CO2", "Gt", "", "10", "abc"},
		},
	}

	rows, dropped, err := Melt(table, ipccSpec())
	if err != nil {
		t.Fatalf("Melt() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Melt() rows = %d, want 1", len(rows))
	}
	if dropped[DropBadValue] != 1 {
		t.Errorf("dropped bad values = %d, want 1", dropped[DropBadValue])
	}

	obs, normDrops := Normalize(rows, ipccSpec())
	if len(normDrops) != 0 {
		t.Errorf("unexpected normalization drops: %v", normDrops)
	}
	if len(obs) != 1 {
		t.Fatalf("Normalize() = %d observations, want 1", len(obs))
	}

	o := obs[0]
	if o.Provider != "IPCC-R6" || o.Region != "World" || o.Scenario != "SSP1" || o.Variable != "CO2" {
		t.Errorf("identity = %+v", o)
	}
	if o.Unit == nil || *o.Unit != "Gt" {
		t.Errorf("Unit = %v, want Gt", o.Unit)
	}
	if o.Notes != nil {
		t.Errorf("Notes = %q, want nil", *o.Notes)
	}
	if o.Year != 2020 || o.Value != 10.0 {
		t.Errorf("(year, value) = (%d, %v), want (2020, 10)", o.Year, o.Value)
	}
}

func TestMelt_RowCount(t *testing.T) {
	// 3 identity rows x 3 year columns = 9 pairs; 2 non-numeric cells.
	table := Table{
		Header: []string{"Region", "Variable", "2020", "2030", "2040"},
		Rows: [][]string{
			{"World", "CO2", "1", "2", "3"},
			{"Asia", "CO2", "4", "", "6"},
			{"OECD", "CH4", "N/A", "8", "9"},
		},
	}

	rows, dropped, err := Melt(table, ipccSpec())
	if err != nil {
		t.Fatalf("Melt() error = %v", err)
	}
	if len(rows) != 7 {
		t.Errorf("Melt() rows = %d, want 7", len(rows))
	}
	if dropped[DropBadValue] != 2 {
		t.Errorf("dropped = %d, want 2", dropped[DropBadValue])
	}
}

func TestMelt_SynthesizesMissingIdentityColumns(t *testing.T) {
	table := Table{
		Header: []string{"Region", "Variable", "2050"},
		Rows:   [][]string{{"World", "Temperature", "1.5"}},
	}

	rows, _, err := Melt(table, ipccSpec())
	if err != nil {
		t.Fatalf("Melt() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Scenario != "" || rows[0].Unit != "" || rows[0].Notes != "" {
		t.Errorf("synthesized columns should be blank: %+v", rows[0])
	}
}

func TestMelt_ShortRowsAndBlankRows(t *testing.T) {
	table := Table{
		Header: []string{"Region", "Variable", "2020", "2030"},
		Rows: [][]string{
			{"World", "CO2", "1"}, // 2030 missing
			{"", "", "", ""},
		},
	}

	rows, dropped, err := Melt(table, ipccSpec())
	if err != nil {
		t.Fatalf("Melt() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
	if dropped[DropBadValue] != 1 {
		t.Errorf("dropped = %d, want 1", dropped[DropBadValue])
	}
}

func TestMelt_RequiredColumns(t *testing.T) {
	spec := SourceSpec{
		Key:             "ssp_cmip6",
		Format:          FormatWideCSV,
		Columns:         schema.SSPColumns,
		RequiredColumns: schema.SSPRequiredColumns,
	}
	table := Table{
		Header: []string{"SCENARIO", "REGION", "VARIABLE", "UNIT", "2020"},
		Rows:   [][]string{{"SSP1-19", "World", "CO2", "Mt", "1"}},
	}

	_, _, err := Melt(table, spec)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Melt() error = %v, want validation error", err)
	}
}

func TestLongRows(t *testing.T) {
	spec := SourceSpec{Key: "long", Format: FormatLongCSV}
	table := Table{
		Header: []string{"Provider", "Region", "Variable", "Year", "Value", "Unit"},
		Rows: [][]string{
			{"IEA", "World", "Oil", "2030", "95.5", "mb/d"},
			{"IEA", "World", "Oil", "2040", "", "mb/d"},
		},
	}

	rows, err := LongRows(table, spec)
	if err != nil {
		t.Fatalf("LongRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Provider != "IEA" || rows[0].Year != "2030" || rows[0].Value != "95.5" || rows[0].Unit != "mb/d" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
}

func TestLongRows_MissingYearColumn(t *testing.T) {
	table := Table{
		Header: []string{"provider", "variable", "value"},
		Rows:   [][]string{{"IEA", "Oil", "1"}},
	}
	if _, err := LongRows(table, SourceSpec{Key: "long"}); !errors.Is(err, ErrValidation) {
		t.Errorf("LongRows() error = %v, want validation error", err)
	}
}
