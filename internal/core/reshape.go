package core

// reshape.go converts source tables into raw long rows.
//
// Wide tables carry identity columns plus one column per year. Melting emits
// one raw row per (identity row, year column) pair. Long tables already carry
// one observation per row and are mapped column by column. Either way the
// result goes through Normalize before it reaches the dataset.

import (
	"strings"

	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// DetectYearColumns returns the positions of the year columns of a wide
// header. A header qualifies when it is all digits; four-digit headers are
// preferred and any all-digit header is the fallback.
func DetectYearColumns(header []string) ([]int, error) {
	var fourDigit, anyDigit []int
	for i, h := range header {
		h = CleanCell(h)
		if !IsDigits(h) {
			continue
		}
		anyDigit = append(anyDigit, i)
		if len(h) == 4 {
			fourDigit = append(fourDigit, i)
		}
	}

	switch {
	case len(fourDigit) > 0:
		return fourDigit, nil
	case len(anyDigit) > 0:
		return anyDigit, nil
	default:
		return nil, ValidationError{Message: "no year columns detected"}
	}
}

// Melt reshapes a wide table into raw long rows. Identity columns missing from
// the header are synthesized as blank. Pairs whose header is not a year or
// whose cell is not numeric are dropped and counted under their reason.
func Melt(t Table, spec SourceSpec) ([]schema.RawRow, map[DropReason]int, error) {
	idx, err := ValidateHeaders(t.Header, spec.Columns, spec.RequiredColumns)
	if err != nil {
		return nil, nil, err
	}

	yearCols, err := DetectYearColumns(t.Header)
	if err != nil {
		return nil, nil, err
	}

	years := make([]string, len(yearCols))
	for i, pos := range yearCols {
		years[i] = CleanCell(t.Header[pos])
	}

	dropped := make(map[DropReason]int)
	out := make([]schema.RawRow, 0, len(t.Rows)*len(yearCols))

	for _, row := range t.Rows {
		if isBlankRow(row) {
			continue
		}
		base := identity(row, idx, spec)

		for i, pos := range yearCols {
			if _, ok := ParseYear(years[i]); !ok {
				dropped[DropBadYear]++
				continue
			}
			var value string
			if pos < len(row) {
				value = row[pos]
			}
			if _, ok := ParseValue(value); !ok {
				dropped[DropBadValue]++
				continue
			}

			r := base
			r.Year = years[i]
			r.Value = value
			out = append(out, r)
		}
	}

	return out, dropped, nil
}

// LongRows maps a long table onto raw rows.
func LongRows(t Table, spec SourceSpec) ([]schema.RawRow, error) {
	columns := spec.Columns
	if len(columns) == 0 {
		columns = schema.LongColumns
	}
	required := spec.RequiredColumns
	if required == nil {
		required = schema.LongRequiredColumns
	}

	idx, err := ValidateHeaders(t.Header, columns, required)
	if err != nil {
		return nil, err
	}

	withColumns := spec
	withColumns.Columns = columns

	out := make([]schema.RawRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if isBlankRow(row) {
			continue
		}
		r := identity(row, idx, withColumns)
		r.Year = cell(row, idx, columnName(columns, schema.FieldYear))
		r.Value = cell(row, idx, columnName(columns, schema.FieldValue))
		out = append(out, r)
	}

	return out, nil
}

// identity copies the mapped identity cells of a row into a raw row.
func identity(row []string, idx HeaderIndex, spec SourceSpec) schema.RawRow {
	var r schema.RawRow
	for _, field := range schema.IdentityFields {
		name, ok := spec.Columns[field]
		if !ok {
			continue
		}
		r.Set(field, cell(row, idx, name))
	}
	return r
}

func columnName(columns map[string]string, field string) string {
	if name, ok := columns[field]; ok {
		return name
	}
	return field
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
