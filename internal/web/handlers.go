package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/climate-explorer/internal/logging"
)

// handleRoot reports that the API is up. It never touches the dataset.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Climate Explorer API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleProviders lists every provider.
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := s.service.Providers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, providers)
}

// handleValues lists the distinct values of field, narrowed by ?provider=.
func (s *Server) handleValues(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := strings.TrimSpace(r.URL.Query().Get("provider"))

		values, err := s.service.Values(r.Context(), field, provider)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, values)
	}
}

// handleDatasets runs a filtered query.
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, s.service.Limits())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rows, err := s.service.Query(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("datasets query",
		"provider", filter.Provider,
		"variable", filter.Variable,
		"rows", len(rows),
		"limit", filter.Limit,
	)
	writeJSON(w, http.StatusOK, rows)
}

// handleProviderDatasets returns one provider's observations.
func (s *Server) handleProviderDatasets(w http.ResponseWriter, r *http.Request) {
	provider, err := providerParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit, err := s.service.Limits().ResolveLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rows, err := s.service.ProviderObservations(r.Context(), provider, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleSources returns the load report of the cached dataset.
func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
