// Package json decodes JSON documents into typed records.
//
// It accepts the shapes raw lake inputs come in:
//
//   - newline-delimited objects (NDJSON), one record per line:
//     {"song_id":"S1","title":"a"}
//     {"song_id":"S2","title":"b"}
//   - a single object per file (the song catalog layout);
//   - a top-level array of objects, when Options.AllowArrays is set.
//
// DecodeLines keeps going past records that do not decode, counting their
// lines instead of failing the whole input.
//
// Decoding uses goccy/go-json, which is API-compatible with encoding/json
// and honours the same struct tags and Unmarshaler implementations.
package json

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Options controls accepted document shapes.
type Options struct {
	// AllowArrays accepts a leading top-level JSON array of records.
	AllowArrays bool
}

// Decoder streams records of type T from NDJSON or concatenated objects.
type Decoder[T any] struct {
	dec *json.Decoder
	n   int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder[T any](r io.Reader) *Decoder[T] {
	return &Decoder[T]{dec: json.NewDecoder(r)}
}

// Next decodes the next record. It returns io.EOF when the stream is
// exhausted. Errors carry the 1-based record ordinal.
func (d *Decoder[T]) Next() (T, error) {
	var v T
	if err := d.dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, io.EOF
		}
		return v, fmt.Errorf("json parser: record %d: %w", d.n+1, err)
	}
	d.n++
	return v, nil
}

// DecodeAll reads every record in r. An empty or whitespace-only input
// yields no records and no error.
func DecodeAll[T any](r io.Reader, opt Options) ([]T, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("json parser: read: %w", err)
	}

	d := NewDecoder[T](br)
	var out []T

	if first == '[' {
		if !opt.AllowArrays {
			return nil, fmt.Errorf("json parser: top-level array encountered but allow_arrays=false")
		}
		var arr []T
		if err := d.dec.Decode(&arr); err != nil {
			return nil, fmt.Errorf("json parser: decode array: %w", err)
		}
		out = append(out, arr...)
		d.n = len(arr)
	}

	for {
		v, err := d.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// DecodeLines reads r like DecodeAll and falls back to line mode when the
// input does not decode as a whole: each non-blank line is one record, and
// lines that fail to decode into T are skipped and reported in corrupt by
// 1-based line number. A read error is still returned.
func DecodeLines[T any](r io.Reader, opt Options) (recs []T, corrupt []int, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("json parser: read: %w", err)
	}
	if recs, err := DecodeAll[T](bytes.NewReader(b), opt); err == nil {
		return recs, nil, nil
	}

	b = bytes.TrimPrefix(b, bom)
	for i, line := range bytes.Split(b, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			corrupt = append(corrupt, i+1)
			continue
		}
		recs = append(recs, v)
	}
	return recs, corrupt, nil
}

// peekNonSpace skips leading JSON whitespace (and a UTF-8 BOM) and returns
// the next byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, bom) {
		_, _ = br.Discard(3)
	}
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return c, nil
	}
}
