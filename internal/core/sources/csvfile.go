package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JonMunkholm/climate-explorer/internal/core"
)

func registerCSV() {
	core.Register(core.FormatDefinition{
		Format: core.FormatWideCSV,
		Label:  "Wide CSV",
		Shape:  core.ShapeWide,
		New: func(spec core.SourceSpec, _ core.Deps) (core.Source, error) {
			return &csvSource{spec: spec}, nil
		},
	})
	core.Register(core.FormatDefinition{
		Format: core.FormatLongCSV,
		Label:  "Long CSV (file or directory)",
		Shape:  core.ShapeLong,
		New: func(spec core.SourceSpec, _ core.Deps) (core.Source, error) {
			return &csvSource{spec: spec, allowDir: true}, nil
		},
	})
}

// csvSource reads one CSV file, or every *.csv file of a directory when
// allowDir is set.
type csvSource struct {
	spec     core.SourceSpec
	allowDir bool
}

func (s *csvSource) Spec() core.SourceSpec { return s.spec }

func (s *csvSource) Read(ctx context.Context) (core.Batch, error) {
	info, err := os.Stat(s.spec.Path)
	if errors.Is(err, os.ErrNotExist) {
		return core.Batch{}, core.NotFoundf("file %s", s.spec.Path)
	}
	if err != nil {
		return core.Batch{}, err
	}

	if !info.IsDir() {
		table, n, err := core.ReadCSVFile(s.spec.Path)
		if err != nil {
			return core.Batch{BytesRead: n}, err
		}
		return core.Batch{Tables: []core.Table{table}, BytesRead: n}, nil
	}

	if !s.allowDir {
		return core.Batch{}, core.ValidationError{Field: s.spec.Path, Message: "expected a file, got a directory"}
	}
	return s.readDir(ctx)
}

// readDir parses every *.csv file of the directory in name order. A file that
// cannot be parsed is skipped with a warning.
func (s *csvSource) readDir(ctx context.Context) (core.Batch, error) {
	files, err := csvFiles(s.spec.Path)
	if err != nil {
		return core.Batch{}, err
	}

	var batch core.Batch
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		table, n, err := core.ReadCSVFile(path)
		batch.BytesRead += n
		if err != nil {
			batch.Warnings = append(batch.Warnings, fmt.Sprintf("skipped %s: %v", filepath.Base(path), err))
			continue
		}
		table.Name = filepath.Base(path)
		batch.Tables = append(batch.Tables, table)
	}

	if len(batch.Tables) == 0 && len(batch.Warnings) == 0 {
		return batch, core.NotFoundf("file %s/*.csv", s.spec.Path)
	}
	return batch, nil
}

func csvFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
