// Package common provides the upload readers and ledger CSV export shared by
// the import pipeline and the command line.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/parsererror"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const byteOrderMark = "\ufeff"

// Record is one staged row: column name to trimmed value.
type Record map[string]string

// recordSource yields raw records and the line they came from; io.EOF ends
// the stream.
type recordSource func() (record []string, line int, err error)

// RowReader is a lazy, single-use sequence of statement rows.
type RowReader struct {
	headers []string
	next    recordSource
	logger  logging.Logger
	used    bool
	err     error
}

// NewCSVRowReader decodes r as UTF-8 (honouring any byte order mark) and
// reads the header line. An empty input yields a reader with no headers and
// no rows. comma selects the field separator; zero means ','.
func NewCSVRowReader(r io.Reader, comma rune, logger logging.Logger) (*RowReader, error) {
	logger = logging.OrDefault(logger)
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &RowReader{next: exhausted, logger: logger}, nil
	}
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			Source:   "upload",
			Expected: "CSV with header row",
			Err:      err,
		}
	}

	next := func() ([]string, int, error) {
		rec, err := cr.Read()
		if err != nil {
			return nil, 0, err
		}
		line, _ := cr.FieldPos(0)
		return rec, line, nil
	}
	return &RowReader{headers: normalizeHeaders(header), next: next, logger: logger}, nil
}

// OpenUpload picks a reader for filename by extension: .xlsx workbooks go
// through the spreadsheet reader, everything else is read as CSV.
func OpenUpload(filename string, r io.Reader, comma rune, logger logging.Logger) (*RowReader, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return NewXLSXRowReader(r, logger)
	}
	return NewCSVRowReader(r, comma, logger)
}

func exhausted() ([]string, int, error) { return nil, 0, io.EOF }

// normalizeHeaders trims headers, drops a stray byte order mark and names
// blank columns by position so every value stays addressable.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, byteOrderMark)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// Headers returns the trimmed header names in file order.
func (r *RowReader) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

// Err returns the error that stopped iteration early, if any.
func (r *RowReader) Err() error {
	return r.err
}

// All yields every non-blank row in order. The sequence can be consumed
// once; later calls yield nothing.
func (r *RowReader) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if r.used {
			return
		}
		r.used = true

		for {
			raw, line, err := r.next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				r.err = fmt.Errorf("error reading row: %w", err)
				return
			}

			rec, blank := r.toRecord(raw)
			if blank {
				r.logger.Warn("Skipping blank row", logging.Field{Key: "line", Value: line})
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Collect drains the reader into a slice.
func (r *RowReader) Collect() ([]Record, error) {
	var rows []Record
	for rec := range r.All() {
		rows = append(rows, rec)
	}
	return rows, r.Err()
}

func (r *RowReader) toRecord(raw []string) (Record, bool) {
	rec := make(Record, len(r.headers))
	blank := true
	for i, h := range r.headers {
		value := ""
		if i < len(raw) {
			value = strings.TrimSpace(raw[i])
		}
		if _, seen := rec[h]; seen {
			continue
		}
		rec[h] = value
		if value != "" {
			blank = false
		}
	}
	return rec, blank
}
