package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestNewTextReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "utf-8 BOM removed",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, "MODEL,SCENARIO"...),
			expected: "MODEL,SCENARIO",
		},
		{
			name:     "no BOM",
			input:    []byte("Region,2020"),
			expected: "Region,2020",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "empty",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "multibyte kept",
			input:    []byte("Côte d'Ivoire,Réunion"),
			expected: "Côte d'Ivoire,Réunion",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he�lo",
		},
		{
			name:     "invalid byte after BOM replaced",
			input:    []byte{0xEF, 0xBB, 0xBF, 'C', 0xF4, 't', 'e'},
			expected: "C\uFFFDte",
		},
		{
			name:     "utf-16 little endian transcoded",
			input:    []byte{0xFF, 0xFE, 'R', 0, '6', 0},
			expected: "R6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(NewTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	input := strings.Repeat("x", 1000)
	reader := NewCountingReader(strings.NewReader(input))

	buf := make([]byte, 100)
	totalRead := 0
	for {
		n, err := reader.Read(buf)
		totalRead += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if totalRead != len(input) {
		t.Errorf("total read = %d, want %d", totalRead, len(input))
	}
	if reader.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", reader.BytesRead, len(input))
	}
}

func TestWrapForStreaming(t *testing.T) {
	// BOM followed by a Latin-1 byte in a region name
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte{'C', 0xF4, 't', 'e'}...)

	reader, counter := WrapForStreaming(bytes.NewReader(input))
	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := string(result), "C�te"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if counter.BytesRead != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", counter.BytesRead, len(input))
	}
}
