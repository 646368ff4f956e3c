package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nievasdev/brazilgas/internal/fuel"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteStatesCSV writes one row per state aggregate.
func WriteStatesCSV(w io.Writer, states []fuel.StateAggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"state", "state_code", "total_stations", "average_price"}); err != nil {
		return fmt.Errorf("write states header: %w", err)
	}
	for _, s := range states {
		row := []string{s.State, s.StateCode, strconv.Itoa(s.TotalStations), formatFloat(s.AveragePrice)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write state %s: %w", s.State, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthlyCSV writes a wide table: period followed by one column per
// product. Products absent in a month leave an empty cell.
func WriteMonthlyCSV(w io.Writer, points []fuel.MonthlyPoint, products []fuel.Product) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(products)+1)
	header = append(header, "period")
	for _, p := range products {
		header = append(header, string(p))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write monthly header: %w", err)
	}

	for _, pt := range points {
		row := make([]string, 0, len(header))
		row = append(row, pt.Period)
		for _, p := range products {
			if v, ok := pt.Prices[p]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write period %s: %w", pt.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
