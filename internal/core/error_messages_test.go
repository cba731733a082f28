package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name: "missing mandatory source",
			err: &LoadError{Err: &SourceError{
				Key:  "ipcc_r6",
				Path: "data/R60_bulk.xls",
				Err:  NotFoundf("file %s", "data/R60_bulk.xls"),
			}},
			wantCode:    "SRC001",
			wantMessage: "A mandatory data source is missing",
		},
		{
			name:        "no year columns",
			err:         &LoadError{Err: ValidationError{Message: "no year columns detected"}},
			wantCode:    "SRC002",
			wantMessage: "A wide data source has no year columns",
		},
		{
			name:        "missing identity column",
			err:         ValidationError{Message: "missing required columns: MODEL"},
			wantCode:    "SRC003",
			wantMessage: "A data source is missing a required column",
		},
		{
			name:        "no usable sources",
			err:         &LoadError{Err: ValidationError{Message: "no usable sources"}},
			wantCode:    "SRC006",
			wantMessage: "No data source produced any observations",
		},
		{
			name:        "bad limit",
			err:         ValidationError{Field: "limit", Value: "0", Message: "must be at least 1"},
			wantCode:    "QRY001",
			wantMessage: "limit must be a positive integer",
		},
		{
			name:        "bad year",
			err:         ValidationError{Field: "start_year", Value: "x", Message: "must be an integer year"},
			wantCode:    "QRY002",
			wantMessage: "Year bounds must be whole numbers",
		},
		{
			name:        "unknown provider",
			err:         NotFoundf("provider %q", "Nobody"),
			wantCode:    "QRY003",
			wantMessage: "No data for this provider",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("load: %w", errors.New("context deadline exceeded")),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "generic load failure",
			err:         &LoadError{Err: errors.New("disk on fire")},
			wantCode:    "SRC007",
			wantMessage: "The dataset could not be loaded",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something weird happened"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_CaseInsensitive(t *testing.T) {
	got := MapError(errors.New("NO USABLE SOURCES"))
	if got.Code != "SRC006" {
		t.Errorf("MapError() code = %q, want %q", got.Code, "SRC006")
	}
}

func TestFormatUserError(t *testing.T) {
	err := ValidationError{Message: "no year columns detected"}
	got := FormatUserError(err)
	want := "A wide data source has no year columns (Code: SRC002). Check that the file has one column per year (e.g. 2020)"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"known pattern", NotFoundf("provider %q", "x"), true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	load := &LoadError{Err: &SourceError{Key: "ipcc_r6", Err: NotFoundf("file x")}}
	if !errors.Is(load, ErrNotFound) {
		t.Error("LoadError should unwrap to ErrNotFound")
	}
	var se *SourceError
	if !errors.As(load, &se) {
		t.Fatal("LoadError should unwrap to *SourceError")
	}
	if se.Key != "ipcc_r6" {
		t.Errorf("SourceError.Key = %q, want %q", se.Key, "ipcc_r6")
	}

	if !errors.Is(ValidationError{Message: "x"}, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	if errors.Is(NotFoundf("provider"), ErrValidation) {
		t.Error("not-found error should not match ErrValidation")
	}
}
