package core

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/climate-explorer/internal/observability"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// Service provides read access to the memoized dataset.
type Service struct {
	loader  *Loader
	cache   *DatasetCache
	limits  Limits
	metrics *observability.Metrics
}

// NewService creates a Service whose dataset is built by loader on first use.
func NewService(loader *Loader, limits Limits, metrics *observability.Metrics) *Service {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	if limits.Default <= 0 {
		limits.Default = DefaultLimit
	}
	if limits.Max <= 0 {
		limits.Max = MaxLimit
	}

	s := &Service{
		loader:  loader,
		limits:  limits,
		metrics: metrics,
	}
	s.cache = NewDatasetCache(s.load)
	return s
}

func (s *Service) load(ctx context.Context) (*Dataset, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.DatasetReady.Set(1)
	return ds, nil
}

// Limits returns the query limits in effect.
func (s *Service) Limits() Limits {
	return s.limits
}

// Sources returns the declared sources in load order.
func (s *Service) Sources() []SourceSpec {
	return s.loader.Sources()
}

// Dataset returns the cached dataset, loading it on first use.
func (s *Service) Dataset(ctx context.Context) (*Dataset, error) {
	return s.cache.Get(ctx)
}

// Warm loads the dataset ahead of the first request.
func (s *Service) Warm(ctx context.Context) error {
	ds, err := s.cache.Get(ctx)
	if err != nil {
		return err
	}
	slog.Info("dataset warm", "observations", len(ds.Observations), "load_id", ds.LoadID)
	return nil
}

// CheckReadiness reports whether the dataset has been loaded.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.cache.CheckReadiness(ctx)
}

// Query runs a filtered dataset query. A zero limit uses the default.
func (s *Service) Query(ctx context.Context, f Filter) ([]schema.Observation, error) {
	ds, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	if f.Limit <= 0 {
		f.Limit = s.limits.Default
	}
	if f.Limit > s.limits.Max {
		f.Limit = s.limits.Max
	}

	rows := Query(ds.Observations, f)
	s.metrics.QueryResultRows.Observe(float64(len(rows)))
	return rows, nil
}

// Values lists the distinct values of field, optionally for one provider.
func (s *Service) Values(ctx context.Context, field, provider string) ([]string, error) {
	ds, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return Distinct(ds.Observations, field, provider)
}

// Providers lists every provider in the dataset.
func (s *Service) Providers(ctx context.Context) ([]string, error) {
	return s.Values(ctx, schema.FieldProvider, "")
}

// ProviderObservations returns one provider's observations ordered by
// variable, region and year. A zero limit uses the default.
func (s *Service) ProviderObservations(ctx context.Context, provider string, limit int) ([]schema.Observation, error) {
	ds, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.limits.Default
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}

	rows, err := ByProvider(ds.Observations, provider, limit)
	if err != nil {
		return nil, err
	}
	s.metrics.QueryResultRows.Observe(float64(len(rows)))
	return rows, nil
}

// Report returns the load report of the cached dataset.
func (s *Service) Report(ctx context.Context) (Report, error) {
	ds, err := s.cache.Get(ctx)
	if err != nil {
		return Report{}, err
	}
	return ds.Report(), nil
}
