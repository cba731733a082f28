// Package sources registers the readable source formats with the core
// registry. Import this package to make spreadsheet, CSV and Postgres
// sources available to core.OpenSources.
package sources

func init() {
	registerSpreadsheet()
	registerCSV()
	registerPostgres()
}
