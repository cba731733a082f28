package core

// loader.go builds a Dataset from the declared sources.
//
// The flow per load:
//  1. Every source is read concurrently, each into its own result slot
//  2. Each table is reshaped (melt or long mapping) and normalized
//  3. Results are concatenated in declaration order
//  4. The merged slice is renormalized and sorted canonically
//
// A failure in a required source aborts the load. A failure in an optional
// source is recorded as a warning and the source is skipped. Within a
// multi-file source, an unreadable file is skipped with a warning.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/climate-explorer/internal/observability"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

// Loader reads and merges a fixed list of sources.
type Loader struct {
	sources []Source
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewLoader creates a Loader over sources in declaration order. A nil
// metrics value records into an unregistered set.
func NewLoader(sources []Source, metrics *observability.Metrics, logger *slog.Logger) *Loader {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sources: sources,
		metrics: metrics,
		logger:  logger,
	}
}

// Sources returns the specs the loader reads, in declaration order.
func (l *Loader) Sources() []SourceSpec {
	specs := make([]SourceSpec, len(l.sources))
	for i, src := range l.sources {
		specs[i] = src.Spec()
	}
	return specs
}

type sourceResult struct {
	observations []schema.Observation
	report       SourceReport
	err          error // hard failure of a required source
}

// Load reads every source and returns the merged dataset.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	start := clock.Now()

	ds, err := l.load(ctx)

	elapsed := clock.Since(start)
	l.metrics.DatasetLoadDuration.Observe(elapsed.Seconds())
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		l.logger.Error("dataset load failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return nil, &LoadError{Err: err}
	}

	ds.LoadedAt = start
	ds.Duration = elapsed
	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.Observations.Set(float64(len(ds.Observations)))

	l.logger.Info("dataset loaded",
		"load_id", ds.LoadID,
		"observations", len(ds.Observations),
		"sources", len(ds.Sources),
		"duration_ms", elapsed.Milliseconds(),
	)
	return ds, nil
}

func (l *Loader) load(ctx context.Context) (*Dataset, error) {
	results := make([]sourceResult, len(l.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, src := range l.sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.readSource(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []schema.Observation
	reports := make([]SourceReport, 0, len(results))
	usable := 0

	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if len(res.observations) > 0 {
			usable++
		}
		merged = append(merged, res.observations...)
		reports = append(reports, res.report)
	}

	if usable == 0 {
		return nil, ValidationError{Message: "no usable sources"}
	}

	merged, dropped := Renormalize(merged)
	for reason, n := range dropped {
		l.logger.Warn("merge dropped observations", "reason", reason, "count", n)
	}
	SortCanonical(merged)

	return &Dataset{
		Observations: merged,
		LoadID:       uuid.New(),
		Sources:      reports,
	}, nil
}

// readSource reads, reshapes and normalizes one source. Soft failures are
// folded into the report; only required-source failures set err.
func (l *Loader) readSource(ctx context.Context, src Source) sourceResult {
	spec := src.Spec()
	logger := l.logger.With("source", spec.Key)

	report := SourceReport{
		Key:      spec.Key,
		Label:    spec.Label,
		Format:   spec.Format,
		Path:     spec.Path,
		Required: spec.Required,
		Dropped:  make(map[DropReason]int),
		Warnings: []string{},
	}

	batch, err := src.Read(ctx)
	report.BytesRead = batch.BytesRead
	for _, w := range batch.Warnings {
		l.warn(logger, &report, w)
	}

	if err != nil {
		return l.sourceFailure(logger, spec, report, err)
	}

	shape := ShapeOf(spec.Format)
	var observations []schema.Observation

	for _, t := range batch.Tables {
		rows, drops, err := reshape(t, spec, shape)
		if err != nil {
			// Single-table sources fail as a whole; in a directory scan one
			// bad file only costs that file.
			if len(batch.Tables) == 1 {
				return l.sourceFailure(logger, spec, report, err)
			}
			l.warn(logger, &report, fmt.Sprintf("skipped %s: %v", t.Name, err))
			continue
		}

		obs, normDrops := Normalize(rows, spec)
		mergeDrops(report.Dropped, drops)
		mergeDrops(report.Dropped, normDrops)

		report.Tables++
		report.RowsRead += len(t.Rows)
		observations = append(observations, obs...)
	}

	report.Emitted = len(observations)
	report.Status = StatusLoaded
	if report.Tables == 0 {
		report.Status = StatusSkipped
	}

	l.metrics.SourceRowsRead.WithLabelValues(spec.Key).Add(float64(report.RowsRead))
	for reason, n := range report.Dropped {
		l.metrics.SourceDropped.WithLabelValues(spec.Key, string(reason)).Add(float64(n))
	}

	logger.Info("source loaded",
		"tables", report.Tables,
		"rows_read", report.RowsRead,
		"emitted", report.Emitted,
		"dropped", report.DroppedTotal(),
	)

	return sourceResult{observations: observations, report: report}
}

func reshape(t Table, spec SourceSpec, shape Shape) ([]schema.RawRow, map[DropReason]int, error) {
	if shape == ShapeWide {
		return Melt(t, spec)
	}
	rows, err := LongRows(t, spec)
	return rows, nil, err
}

func (l *Loader) sourceFailure(logger *slog.Logger, spec SourceSpec, report SourceReport, err error) sourceResult {
	report.Error = err.Error()

	if spec.Required || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		report.Status = StatusFailed
		return sourceResult{
			report: report,
			err:    &SourceError{Key: spec.Key, Path: spec.Path, Err: err},
		}
	}

	report.Status = StatusSkipped
	if errors.Is(err, ErrNotFound) {
		logger.Info("optional source not present, skipping", "path", spec.Path)
	} else {
		l.warn(logger, &report, err.Error())
	}
	return sourceResult{report: report}
}

func (l *Loader) warn(logger *slog.Logger, report *SourceReport, msg string) {
	report.Warnings = append(report.Warnings, msg)
	l.metrics.SourceWarnings.WithLabelValues(report.Key).Inc()
	logger.Warn("source warning", "warning", msg)
}
