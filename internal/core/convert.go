package core

// convert.go turns raw spreadsheet and CSV cells into typed values.
//
// Cells arrive as whatever the exporting tool wrote: padded text, Excel
// formula prefixes (="2020"), integral floats for years ("2020.0"), and
// placeholders such as "N/A" or "-" where a value is missing. The Parse*
// functions return ok=false for anything that is not a usable number so the
// caller can drop the pair.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Plausible calendar years. Anything outside is treated as a bad year.
const (
	MinYear = 1000
	MaxYear = 9999
)

// ParseYear parses a year cell or header. Integral numerals are accepted in
// either integer or float notation ("2020", "2020.0").
func ParseYear(s string) (int, bool) {
	s = CleanCell(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= MinYear && n <= MaxYear
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if f < MinYear || f > MaxYear {
		return 0, false
	}
	return int(f), true
}

// ParseValue parses a numeric observation value. Blank cells, text
// placeholders, NaN and infinities are rejected.
func ParseValue(s string) (float64, bool) {
	s = CleanCell(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsDigits reports whether s is non-empty and consists only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// OptionalString returns nil for blank input and a pointer to the trimmed
// value otherwise.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching. The first occurrence of
// a duplicated header wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// cell returns the cleaned cell at the header position of name, or "" when
// the column is absent or the row is short.
func cell(row []string, idx HeaderIndex, name string) string {
	pos, ok := idx[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}
