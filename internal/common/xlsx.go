package common

import (
	"fmt"
	"io"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// NewXLSXRowReader reads the first worksheet of a workbook. The first row is
// the header; the same trimming and blank-row rules as CSV apply.
func NewXLSXRowReader(r io.Reader, logger logging.Logger) (*RowReader, error) {
	logger = logging.OrDefault(logger)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			Source:   "upload",
			Expected: "xlsx workbook",
			Err:      err,
		}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &RowReader{next: exhausted, logger: logger}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &RowReader{next: exhausted, logger: logger}, nil
	}

	pos := 1
	next := func() ([]string, int, error) {
		if pos >= len(rows) {
			return nil, 0, io.EOF
		}
		rec := rows[pos]
		pos++
		return rec, pos, nil
	}
	return &RowReader{headers: normalizeHeaders(rows[0]), next: next, logger: logger}, nil
}
