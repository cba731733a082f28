package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/climate-explorer/internal/core"
)

func registerSpreadsheet() {
	core.Register(core.FormatDefinition{
		Format: core.FormatSpreadsheet,
		Label:  "Spreadsheet (first sheet)",
		Shape:  core.ShapeWide,
		New: func(spec core.SourceSpec, _ core.Deps) (core.Source, error) {
			return &spreadsheetSource{spec: spec}, nil
		},
	})
}

// spreadsheetSource reads the first sheet of a workbook. Modern workbooks
// (.xlsx, .xlsm) go through excelize; legacy BIFF files (.xls) through xls.
type spreadsheetSource struct {
	spec core.SourceSpec
}

func (s *spreadsheetSource) Spec() core.SourceSpec { return s.spec }

func (s *spreadsheetSource) Read(ctx context.Context) (core.Batch, error) {
	info, err := os.Stat(s.spec.Path)
	if errors.Is(err, os.ErrNotExist) {
		return core.Batch{}, core.NotFoundf("file %s", s.spec.Path)
	}
	if err != nil {
		return core.Batch{}, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(s.spec.Path)) {
	case ".xls":
		rows, err = readXLS(ctx, s.spec.Path)
	default:
		rows, err = readXLSX(ctx, s.spec.Path)
	}
	if err != nil {
		return core.Batch{BytesRead: info.Size()}, err
	}

	table, err := tableFromRows(filepath.Base(s.spec.Path), rows)
	if err != nil {
		return core.Batch{BytesRead: info.Size()}, err
	}

	return core.Batch{
		Tables:    []core.Table{table},
		BytesRead: info.Size(),
	}, nil
}

// readXLSX returns the raw cell text of the first sheet. Raw values keep
// numbers unformatted so "2020" never reads back as "2,020".
func readXLSX(ctx context.Context, path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("invalid spreadsheet %s: no sheets", path)
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet %s: %w", path, err)
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		if len(rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("invalid spreadsheet %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readXLS returns the cell text of the first sheet of a BIFF workbook.
func readXLS(ctx context.Context, path string) (rows [][]string, err error) {
	// The BIFF decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("invalid spreadsheet %s: %v", path, r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet %s: %w", path, err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("invalid spreadsheet %s: no sheets", path)
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// tableFromRows takes the first non-blank row as the header.
func tableFromRows(name string, rows [][]string) (core.Table, error) {
	for i, row := range rows {
		if blank(row) {
			continue
		}
		return core.Table{
			Name:   name,
			Header: row,
			Rows:   rows[i+1:],
		}, nil
	}
	return core.Table{}, core.ValidationError{Field: name, Message: "empty file"}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
