package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadCSV parses a CSV stream into a Table. The first record is the header.
// Ragged rows are accepted; missing trailing cells read as blank.
func ReadCSV(r io.Reader, name string) (Table, int64, error) {
	wrapped, counter := WrapForStreaming(r)

	reader := csv.NewReader(wrapped)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, counter.BytesRead, ValidationError{Field: name, Message: "empty file"}
	}
	if err != nil {
		return Table{}, counter.BytesRead, fmt.Errorf("invalid csv %s: %w", name, err)
	}

	t := Table{Name: name, Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, counter.BytesRead, fmt.Errorf("invalid csv %s: %w", name, err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, counter.BytesRead, nil
}

// ReadCSVFile opens and parses a CSV file. A missing file yields an error
// matching ErrNotFound.
func ReadCSVFile(path string) (Table, int64, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Table{}, 0, NotFoundf("file %s", path)
	}
	if err != nil {
		return Table{}, 0, err
	}
	defer f.Close()

	return ReadCSV(f, path)
}
