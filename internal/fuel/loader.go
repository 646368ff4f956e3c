package fuel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrMissingColumns is returned when the CSV header lacks a required column.
var ErrMissingColumns = errors.New("missing required csv columns")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RowReader produces raw rows from survey CSV text, one at a time.
type RowReader struct {
	reader *csv.Reader
	header []string
	line   int
}

// NewRowReader reads and validates the header row.
func NewRowReader(r io.Reader) (*RowReader, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	// Trailing empty cells are sometimes dropped by spreadsheet exports.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumns)
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]string, len(header))
	present := make(map[string]struct{}, len(header))
	for i, h := range header {
		cols[i] = norm.NFC.String(strings.TrimSpace(h))
		present[cols[i]] = struct{}{}
	}

	var missing []string
	for _, req := range RequiredColumns {
		if _, ok := present[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return &RowReader{reader: reader, header: cols, line: 1}, nil
}

// Header returns the normalized column names.
func (rr *RowReader) Header() []string {
	return append([]string(nil), rr.header...)
}

// Next returns the next row, or io.EOF when the input is exhausted.
func (rr *RowReader) Next() (RawRow, error) {
	fields, err := rr.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read csv line %d: %w", rr.line+1, err)
	}
	rr.line++

	row := make(RawRow, len(rr.header))
	for i, col := range rr.header {
		if i < len(fields) {
			row[col] = fields[i]
		} else {
			row[col] = ""
		}
	}
	return row, nil
}

// Load drains the whole CSV and then validates every row. Any structural
// error aborts the load; invalid rows are dropped and only counted.
func Load(ctx context.Context, r io.Reader, p *Parser) ([]Record, LoadStats, error) {
	var stats LoadStats

	rr, err := NewRowReader(r)
	if err != nil {
		return nil, stats, err
	}

	var rows []RawRow
	for {
		if len(rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		rows = append(rows, row)
	}

	records := make([]Record, 0, len(rows))
	unmapped := make(map[string]struct{})
	for _, row := range rows {
		stats.Rows++
		rec, ok := p.ParseRow(row)
		if !ok {
			stats.Rejected++
			continue
		}
		stats.Accepted++
		if !rec.Dated() {
			stats.Undated++
		}
		if _, mapped := p.Catalog().LookupStateCode(rec.State); !mapped {
			unmapped[rec.State] = struct{}{}
		}
		records = append(records, rec)
	}

	for name := range unmapped {
		stats.UnmappedStates = append(stats.UnmappedStates, name)
	}
	sort.Strings(stats.UnmappedStates)

	return records, stats, nil
}
