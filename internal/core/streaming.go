package core

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// NewTextReader decodes spreadsheet-tool exports to clean UTF-8. A leading
// byte order mark is removed (UTF-16 exports are transcoded) and invalid
// UTF-8 bytes become U+FFFD, so a stray Latin-1 byte in a region name never
// fails the parse.
//
// BOMOverride passes bytes through untouched once it has consumed a UTF-8
// BOM, so the second decoder is what guarantees valid output.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		unicode.UTF8.NewDecoder(),
	))
}

// WrapForStreaming applies NewTextReader on top of a byte counter. The
// counter sees the raw input, BOM included.
func WrapForStreaming(r io.Reader) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r)
	return NewTextReader(counter), counter
}
