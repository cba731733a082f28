package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// DBTX is the read-only slice of a Postgres connection the SQL source needs.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// Format identifies how a source is read.
type Format string

const (
	FormatSpreadsheet Format = "spreadsheet" // .xlsx or .xls workbook, first sheet
	FormatWideCSV     Format = "wide_csv"
	FormatLongCSV     Format = "long_csv" // a single file or a directory of *.csv
	FormatPostgres    Format = "postgres"
)

// Shape says whether a source carries one column per year or one row per
// observation.
type Shape int

const (
	ShapeWide Shape = iota
	ShapeLong
)

func (s Shape) String() string {
	if s == ShapeLong {
		return "long"
	}
	return "wide"
}

// SourceSpec declares one input of the dataset.
type SourceSpec struct {
	Key      string // Unique identifier: "ipcc_r6"
	Label    string // Display name: "IPCC AR6 R6 bulk"
	Format   Format
	Path     string // File, directory, or table name for FormatPostgres
	Required bool   // A failure of a required source aborts the load

	// Provider is stamped on rows that have no provider column value.
	Provider string

	// Columns maps normalized field names to source headers.
	Columns map[string]string

	// RequiredColumns are normalized field names whose header must exist.
	RequiredColumns []string

	// DefaultRegion and DefaultScenario fill absent values. Empty means the
	// column is mandatory and rows without it are dropped (region) or kept
	// blank (scenario).
	DefaultRegion   string
	DefaultScenario string

	// SourceURL and License are attached to rows that carry none.
	SourceURL string
	License   string
}

// Table is a parsed rectangular input: a header row plus data rows.
type Table struct {
	Name   string // File name or table name, used in warnings
	Header []string
	Rows   [][]string
}

// Batch is everything a source produced in one read.
type Batch struct {
	Tables    []Table
	Warnings  []string // Soft failures, e.g. a skipped file in a directory scan
	BytesRead int64
}

// Source reads one declared input.
type Source interface {
	Spec() SourceSpec
	Read(ctx context.Context) (Batch, error)
}

// Deps carries shared handles a source factory may need.
type Deps struct {
	DB DBTX
}

// NewSourceFunc builds a Source for a spec of the registered format.
type NewSourceFunc func(spec SourceSpec, deps Deps) (Source, error)

// FormatDefinition contains everything needed to read one kind of source.
type FormatDefinition struct {
	Format Format
	Label  string
	Shape  Shape
	New    NewSourceFunc
}

// SourceStatus is the outcome of reading one source.
type SourceStatus string

const (
	StatusLoaded  SourceStatus = "loaded"
	StatusSkipped SourceStatus = "skipped" // optional and absent or unreadable
	StatusFailed  SourceStatus = "failed"  // required and unreadable
)

// DropReason classifies rows removed during normalization.
type DropReason string

const (
	DropMissingRegion   DropReason = "missing_region"
	DropMissingVariable DropReason = "missing_variable"
	DropBadYear         DropReason = "bad_year"
	DropBadValue        DropReason = "bad_value"
)

// SourceReport records what one source contributed to a load.
type SourceReport struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Format    Format             `json:"format"`
	Path      string             `json:"path"`
	Required  bool               `json:"required"`
	Status    SourceStatus       `json:"status"`
	Tables    int                `json:"tables"`
	RowsRead  int                `json:"rows_read"`
	Emitted   int                `json:"emitted"`
	Dropped   map[DropReason]int `json:"dropped"`
	BytesRead int64              `json:"bytes_read"`
	Warnings  []string           `json:"warnings"`
	Error     string             `json:"error,omitempty"`
}

// DroppedTotal sums the dropped counts over every reason.
func (r SourceReport) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// Dataset is the merged, normalized result of one load. It is never mutated
// after it is built.
type Dataset struct {
	Observations []schema.Observation
	LoadID       uuid.UUID
	LoadedAt     time.Time
	Duration     time.Duration
	Sources      []SourceReport
}

// Report is the JSON view of a dataset's load metadata.
type Report struct {
	LoadID       string         `json:"load_id"`
	LoadedAt     time.Time      `json:"loaded_at"`
	DurationMS   int64          `json:"duration_ms"`
	Observations int            `json:"observations"`
	Sources      []SourceReport `json:"sources"`
}

// Report summarizes the load.
func (d *Dataset) Report() Report {
	return Report{
		LoadID:       d.LoadID.String(),
		LoadedAt:     d.LoadedAt,
		DurationMS:   d.Duration.Milliseconds(),
		Observations: len(d.Observations),
		Sources:      d.Sources,
	}
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int
