package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/climate-explorer/internal/core"
)

func registerPostgres() {
	core.Register(core.FormatDefinition{
		Format: core.FormatPostgres,
		Label:  "Postgres table (long)",
		Shape:  core.ShapeLong,
		New: func(spec core.SourceSpec, deps core.Deps) (core.Source, error) {
			if spec.Path == "" {
				return nil, core.ValidationError{Field: spec.Key, Message: "postgres source needs a table name"}
			}
			return &postgresSource{spec: spec, db: deps.DB}, nil
		},
	})
}

// postgresSource reads a long-format table. Column names become the header,
// so the table follows the same layout as a long CSV file.
type postgresSource struct {
	spec core.SourceSpec
	db   core.DBTX
}

func (s *postgresSource) Spec() core.SourceSpec { return s.spec }

func (s *postgresSource) Read(ctx context.Context) (core.Batch, error) {
	if s.db == nil {
		return core.Batch{}, core.NotFoundf("database connection for table %s", s.spec.Path)
	}

	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{s.spec.Path}.Sanitize())

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return core.Batch{}, s.queryError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	table := core.Table{
		Name:   s.spec.Path,
		Header: make([]string, len(fields)),
	}
	for i, f := range fields {
		table.Header[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return core.Batch{}, fmt.Errorf("read row values: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		table.Rows = append(table.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return core.Batch{}, s.queryError(err)
	}

	return core.Batch{Tables: []core.Table{table}}, nil
}

// queryError maps an undefined table to ErrNotFound so an optional table
// source that was never created is skipped quietly.
func (s *postgresSource) queryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return core.NotFoundf("table %s", s.spec.Path)
	}
	return fmt.Errorf("query %s: %w", s.spec.Path, err)
}

// formatValue renders a decoded column value as cell text.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case pgtype.Text:
		if !x.Valid {
			return ""
		}
		return x.String
	case time.Time:
		return strconv.Itoa(x.Year())
	default:
		return fmt.Sprint(x)
	}
}
