package schema

// Column layouts of the built-in sources. Keys are normalized field names,
// values are the headers as they appear in the source file. Header matching
// is case-insensitive.

// IPCCProvider is the provider name stamped on every row of the IPCC R6 bulk
// spreadsheet, which carries no provider column of its own.
const IPCCProvider = "IPCC-R6"

// IPCCColumns maps the identity columns of the IPCC R6 wide spreadsheet.
var IPCCColumns = map[string]string{
	FieldRegion:   "Region",
	FieldScenario: "Scenario",
	FieldVariable: "Variable",
	FieldUnit:     "Unit",
	FieldNotes:    "Notes",
}

// SSPColumns maps the identity columns of the SSP CMIP6 wide CSV export.
var SSPColumns = map[string]string{
	FieldProvider: "MODEL",
	FieldScenario: "SCENARIO",
	FieldRegion:   "REGION",
	FieldVariable: "VARIABLE",
	FieldUnit:     "UNIT",
}

// SSPRequiredColumns must be present in the SSP header.
var SSPRequiredColumns = []string{
	FieldProvider,
	FieldScenario,
	FieldRegion,
	FieldVariable,
	FieldUnit,
}

// LongColumns maps every field of a long-format file to its own name.
var LongColumns = map[string]string{
	FieldProvider:  FieldProvider,
	FieldScenario:  FieldScenario,
	FieldRegion:    FieldRegion,
	FieldVariable:  FieldVariable,
	FieldUnit:      FieldUnit,
	FieldYear:      FieldYear,
	FieldValue:     FieldValue,
	FieldNotes:     FieldNotes,
	FieldSourceURL: FieldSourceURL,
	FieldLicense:   FieldLicense,
}

// LongRequiredColumns must be present in a long-format header.
var LongRequiredColumns = []string{FieldYear, FieldValue}

// Defaults applied to absent region/scenario values for sources that treat
// those columns as optional.
const (
	DefaultRegion   = "Global"
	DefaultScenario = "N/A"
)
