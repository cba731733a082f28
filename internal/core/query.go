package core

// query.go is the single query engine over a loaded dataset.
//
// Order of operations for a dataset query:
//  1. Equality filters on provider, region, variable, scenario (AND)
//  2. Inclusive year bounds, each applied independently
//  3. Stable sort ascending by year
//  4. Truncate to the limit
//
// Sorting happens before truncation so a capped result is always the
// earliest-year slice of the matches.

import (
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// Default limits for dataset queries.
const (
	DefaultLimit = 2000
	MaxLimit     = 10000
)

// Filter selects observations. Empty strings and nil bounds match everything.
type Filter struct {
	Provider  string
	Region    string
	Variable  string
	Scenario  string
	StartYear *int
	EndYear   *int
	Limit     int
}

// Matches reports whether o satisfies the equality filters and year bounds.
func (f Filter) Matches(o schema.Observation) bool {
	if f.Provider != "" && o.Provider != f.Provider {
		return false
	}
	if f.Region != "" && o.Region != f.Region {
		return false
	}
	if f.Variable != "" && o.Variable != f.Variable {
		return false
	}
	if f.Scenario != "" && o.Scenario != f.Scenario {
		return false
	}
	if f.StartYear != nil && o.Year < *f.StartYear {
		return false
	}
	if f.EndYear != nil && o.Year > *f.EndYear {
		return false
	}
	return true
}

// Query returns at most f.Limit matching observations ordered by year.
// A non-positive limit returns every match.
func Query(obs []schema.Observation, f Filter) []schema.Observation {
	out := make([]schema.Observation, 0)
	for _, o := range obs {
		if f.Matches(o) {
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// Listable fields for Distinct.
var listable = map[string]bool{
	schema.FieldProvider: true,
	schema.FieldVariable: true,
	schema.FieldRegion:   true,
	schema.FieldScenario: true,
}

// Distinct returns the sorted, deduplicated non-empty values of field,
// optionally restricted to one provider.
func Distinct(obs []schema.Observation, field, provider string) ([]string, error) {
	if !listable[field] {
		return nil, ValidationError{Field: "field", Value: field, Message: "unknown field"}
	}

	seen := make(map[string]struct{})
	for _, o := range obs {
		if provider != "" && o.Provider != provider {
			continue
		}
		if v := o.StringValue(field); v != "" {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// ByProvider returns the observations of one provider ordered by variable,
// region and year, capped at limit. A provider with no observations yields
// an error matching ErrNotFound.
func ByProvider(obs []schema.Observation, provider string, limit int) ([]schema.Observation, error) {
	var out []schema.Observation
	for _, o := range obs {
		if o.Provider == provider {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil, NotFoundf("provider %q", provider)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Year < b.Year
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Limits bounds the result size of queries.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the stock query limits.
func DefaultLimits() Limits {
	return Limits{Default: DefaultLimit, Max: MaxLimit}
}

// ResolveLimit parses a raw limit parameter. Absent means the default, a
// value above the maximum is clamped, and anything that is not a positive
// integer is a validation error.
func (l Limits) ResolveLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return l.Default, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: "limit", Value: raw, Message: "must be an integer"}
	}
	if n < 1 {
		return 0, ValidationError{Field: "limit", Value: raw, Message: "must be at least 1"}
	}
	if n > l.Max {
		return l.Max, nil
	}
	return n, nil
}

// ParseYearParam parses an optional year bound. Blank means unbounded.
func ParseYearParam(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, ValidationError{Field: name, Value: raw, Message: "must be an integer year"}
	}
	return &n, nil
}
