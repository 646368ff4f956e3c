package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nievasdev/brazilgas/internal/fuel"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts "csv" or "parquet"; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatParquet:
		return FormatParquet, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) Extension() string {
	return string(f)
}

func (f Format) ContentType() string {
	if f == FormatParquet {
		return "application/vnd.apache.parquet"
	}
	return "text/csv; charset=utf-8"
}

// EncodeStates renders the per-state view in the given format.
func EncodeStates(states []fuel.StateAggregate, f Format) ([]byte, error) {
	if f == FormatParquet {
		return StatesParquet(states)
	}
	var buf bytes.Buffer
	if err := WriteStatesCSV(&buf, states); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeMonthly renders the monthly series. Product columns follow the given
// order, normally the catalog's.
func EncodeMonthly(points []fuel.MonthlyPoint, products []fuel.Product, f Format) ([]byte, error) {
	if f == FormatParquet {
		return MonthlyParquet(points, products)
	}
	var buf bytes.Buffer
	if err := WriteMonthlyCSV(&buf, points, products); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
