// Package core provides the dataset engine behind the climate explorer.
//
// The package is independent of any transport layer. It is used by the HTTP
// server, the climatectl CLI and tests without modification.
//
// # Sources
//
// Each input is described by a [SourceSpec] and opened through a registered
// [FormatDefinition]. Format implementations live in the sources subpackage
// and register themselves at init time:
//
//	core.Register(core.FormatDefinition{
//	    Format: core.FormatWideCSV,
//	    Label:  "Wide CSV",
//	    Shape:  core.ShapeWide,
//	    New:    newWideCSV,
//	})
//
// A source returns raw [Table] values. It never interprets cells.
//
// # Loading
//
// [Loader.Load] reads every source concurrently, then reshapes and normalizes
// each table:
//
//  1. Wide tables are melted into one row per (identity row, year column)
//  2. Long tables are mapped column by column
//  3. Rows are trimmed, defaulted and validated by [NormalizeRow]
//  4. The merged result is renormalized and sorted by [SortCanonical]
//
// Required sources abort the load on any failure. Optional sources are
// skipped with a warning in their [SourceReport].
//
// # Caching and queries
//
// [DatasetCache] holds the merged dataset for the process lifetime and never
// caches a failed load. [Query], [Distinct] and [ByProvider] are pure
// functions over the cached observations; [Service] ties them together.
//
// # Error Handling
//
// Errors are classified by [ErrNotFound] and [ErrValidation]; a failed
// dataset build is a [*LoadError]. [MapError] turns any of them into a coded
// message for clients.
package core
