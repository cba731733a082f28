package core

import (
	"math"
	"sort"
	"strings"

	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// NormalizeRow coerces one raw row. It returns the drop reason and false when
// the row cannot become a valid observation.
func NormalizeRow(r schema.RawRow, spec SourceSpec) (schema.Observation, DropReason, bool) {
	provider := strings.TrimSpace(r.Provider)
	if provider == "" {
		provider = strings.TrimSpace(spec.Provider)
	}

	region := strings.TrimSpace(r.Region)
	if region == "" {
		region = spec.DefaultRegion
	}
	scenario := strings.TrimSpace(r.Scenario)
	if scenario == "" {
		scenario = spec.DefaultScenario
	}

	sourceURL := r.SourceURL
	if strings.TrimSpace(sourceURL) == "" {
		sourceURL = spec.SourceURL
	}
	license := r.License
	if strings.TrimSpace(license) == "" {
		license = spec.License
	}

	year, ok := ParseYear(r.Year)
	if !ok {
		return schema.Observation{}, DropBadYear, false
	}
	value, ok := ParseValue(r.Value)
	if !ok {
		return schema.Observation{}, DropBadValue, false
	}

	return normalizeObservation(schema.Observation{
		Provider:  provider,
		Scenario:  scenario,
		Region:    region,
		Variable:  r.Variable,
		Unit:      OptionalString(r.Unit),
		Year:      year,
		Value:     value,
		Notes:     OptionalString(r.Notes),
		SourceURL: OptionalString(sourceURL),
		License:   OptionalString(license),
	})
}

// Normalize coerces raw rows from one source and counts what was dropped.
func Normalize(rows []schema.RawRow, spec SourceSpec) ([]schema.Observation, map[DropReason]int) {
	dropped := make(map[DropReason]int)
	out := make([]schema.Observation, 0, len(rows))

	for _, r := range rows {
		o, reason, ok := NormalizeRow(r, spec)
		if !ok {
			dropped[reason]++
			continue
		}
		out = append(out, o)
	}

	return out, dropped
}

// Renormalize applies the observation invariants to an already typed slice.
// Applying it to its own output returns the same rows.
func Renormalize(obs []schema.Observation) ([]schema.Observation, map[DropReason]int) {
	dropped := make(map[DropReason]int)
	out := make([]schema.Observation, 0, len(obs))

	for _, o := range obs {
		n, reason, ok := normalizeObservation(o)
		if !ok {
			dropped[reason]++
			continue
		}
		out = append(out, n)
	}

	return out, dropped
}

// normalizeObservation trims every string, turns blank optionals into nil and
// checks the required fields.
func normalizeObservation(o schema.Observation) (schema.Observation, DropReason, bool) {
	o.Provider = strings.TrimSpace(o.Provider)
	o.Scenario = strings.TrimSpace(o.Scenario)
	o.Region = strings.TrimSpace(o.Region)
	o.Variable = strings.TrimSpace(o.Variable)
	o.Unit = trimOptional(o.Unit)
	o.Notes = trimOptional(o.Notes)
	o.SourceURL = trimOptional(o.SourceURL)
	o.License = trimOptional(o.License)

	switch {
	case o.Region == "":
		return schema.Observation{}, DropMissingRegion, false
	case o.Variable == "":
		return schema.Observation{}, DropMissingVariable, false
	case o.Year < MinYear || o.Year > MaxYear:
		return schema.Observation{}, DropBadYear, false
	case math.IsNaN(o.Value) || math.IsInf(o.Value, 0):
		return schema.Observation{}, DropBadValue, false
	}

	return o, "", true
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return OptionalString(*s)
}

// SortCanonical orders observations by provider, region, scenario, variable
// and year. The sort is stable.
func SortCanonical(obs []schema.Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		a, b := obs[i], obs[j]
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.Year < b.Year
	})
}

// mergeDrops adds the counts of src into dst.
func mergeDrops(dst, src map[DropReason]int) {
	for reason, n := range src {
		dst[reason] += n
	}
}
