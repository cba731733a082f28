// Package schema defines the normalized row shape shared by every source
// reader, the reshape engine, and the query layer.
package schema

// Field names of the normalized row. These double as the column headers of a
// long-format CSV and the column names of the Postgres source table.
const (
	FieldProvider  = "provider"
	FieldScenario  = "scenario"
	FieldRegion    = "region"
	FieldVariable  = "variable"
	FieldUnit      = "unit"
	FieldYear      = "year"
	FieldValue     = "value"
	FieldNotes     = "notes"
	FieldSourceURL = "source_url"
	FieldLicense   = "license"
)

// Fields lists every normalized field in response order.
var Fields = []string{
	FieldProvider,
	FieldScenario,
	FieldRegion,
	FieldVariable,
	FieldUnit,
	FieldYear,
	FieldValue,
	FieldNotes,
	FieldSourceURL,
	FieldLicense,
}

// IdentityFields are the non-numeric columns that identify a series.
var IdentityFields = []string{
	FieldProvider,
	FieldScenario,
	FieldRegion,
	FieldVariable,
	FieldUnit,
	FieldNotes,
	FieldSourceURL,
	FieldLicense,
}

// Observation is one normalized data point: a single value of a variable for
// a (provider, scenario, region) series in a given year.
//
// Optional attributes are pointers so they serialize as JSON null when absent.
type Observation struct {
	Provider  string  `json:"provider"`
	Scenario  string  `json:"scenario"`
	Region    string  `json:"region"`
	Variable  string  `json:"variable"`
	Unit      *string `json:"unit"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
	Notes     *string `json:"notes"`
	SourceURL *string `json:"source_url"`
	License   *string `json:"license"`
}

// RawRow is an observation before coercion. Every cell is kept as the text
// that was read; Year comes from a wide header or a long "year" column.
type RawRow struct {
	Provider  string
	Scenario  string
	Region    string
	Variable  string
	Unit      string
	Notes     string
	SourceURL string
	License   string
	Year      string
	Value     string
}

// Set assigns a cell to the identity field with the given name.
// Unknown names are ignored.
func (r *RawRow) Set(field, value string) {
	switch field {
	case FieldProvider:
		r.Provider = value
	case FieldScenario:
		r.Scenario = value
	case FieldRegion:
		r.Region = value
	case FieldVariable:
		r.Variable = value
	case FieldUnit:
		r.Unit = value
	case FieldNotes:
		r.Notes = value
	case FieldSourceURL:
		r.SourceURL = value
	case FieldLicense:
		r.License = value
	case FieldYear:
		r.Year = value
	case FieldValue:
		r.Value = value
	}
}

// StringValue returns the string-typed field with the given name, or "" for
// numeric or unknown fields.
func (o Observation) StringValue(field string) string {
	switch field {
	case FieldProvider:
		return o.Provider
	case FieldScenario:
		return o.Scenario
	case FieldRegion:
		return o.Region
	case FieldVariable:
		return o.Variable
	case FieldUnit:
		return deref(o.Unit)
	case FieldNotes:
		return deref(o.Notes)
	case FieldSourceURL:
		return deref(o.SourceURL)
	case FieldLicense:
		return deref(o.License)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
