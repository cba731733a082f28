package web

// This file contains shared query-parameter parsing used across handlers.

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/climate-explorer/internal/core"
)

// parseFilter reads the dataset query parameters. Text filters are exact;
// malformed numeric parameters are validation errors.
func parseFilter(r *http.Request, limits core.Limits) (core.Filter, error) {
	q := r.URL.Query()

	f := core.Filter{
		Provider: strings.TrimSpace(q.Get("provider")),
		Region:   strings.TrimSpace(q.Get("region")),
		Variable: strings.TrimSpace(q.Get("variable")),
		Scenario: strings.TrimSpace(q.Get("scenario")),
	}

	var err error
	if f.StartYear, err = core.ParseYearParam("start_year", q.Get("start_year")); err != nil {
		return core.Filter{}, err
	}
	if f.EndYear, err = core.ParseYearParam("end_year", q.Get("end_year")); err != nil {
		return core.Filter{}, err
	}
	if f.Limit, err = limits.ResolveLimit(q.Get("limit")); err != nil {
		return core.Filter{}, err
	}

	return f, nil
}

// providerParam returns the {provider} path segment. Provider names may
// contain a slash ("AIM/CGE"), which clients send encoded as %2F. chi routes
// on RawPath only when it is set; otherwise the segment is already decoded.
func providerParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "provider")
	if r.URL.RawPath == "" {
		return raw, nil
	}
	provider, err := url.PathUnescape(raw)
	if err != nil {
		return "", core.ValidationError{Field: "provider", Value: raw, Message: "invalid path encoding"}
	}
	return provider, nil
}
