package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/nievasdev/brazilgas/internal/common"
	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/logger"
)

// headerScanRows bounds how far down a sheet the header row may appear.
const headerScanRows = 20

// surveyDateLayout is the M/D/YY form the loader reads.
const surveyDateLayout = "1/2/06"

// dateColumns hold Excel date serials in real survey workbooks.
var dateColumns = []string{fuel.ColPeriodStart, fuel.ColPeriodEnd}

type SheetInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Report describes what a conversion found and wrote.
type Report struct {
	Sheets   []SheetInfo `json:"sheets"`
	Sheet    string      `json:"sheet"`
	Header   []string    `json:"header"`
	Rows     int         `json:"rows"`
	Products []string    `json:"products"`
	States   []string    `json:"states"`
	Regions  []string    `json:"regions"`
}

// WorkbookToCSV copies the largest sheet of an xlsx workbook to w as CSV,
// starting at the row that carries the survey column names.
func WorkbookToCSV(r io.Reader, w io.Writer, log *logger.Log) (Report, error) {
	var report Report
	entry := log.WithComponent("convert")

	f, err := excelize.OpenReader(r)
	if err != nil {
		return report, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	// Raw values keep date serials and full numeric precision instead of
	// whatever display format the cell carries.
	var rows [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return report, fmt.Errorf("read sheet %q: %w", name, err)
		}
		report.Sheets = append(report.Sheets, SheetInfo{Name: name, Rows: len(sheetRows)})
		entry.WithFields(logger.Fields{"sheet": name, "rows": len(sheetRows)}).Debug("sheet scanned")

		if report.Sheet == "" || len(sheetRows) > len(rows) {
			report.Sheet = name
			rows = sheetRows
		}
	}
	if report.Sheet == "" {
		return report, fmt.Errorf("workbook has no sheets")
	}

	headerAt := findHeader(rows)
	if headerAt < 0 {
		return report, fmt.Errorf("sheet %q: %w", report.Sheet, fuel.ErrMissingColumns)
	}
	report.Header = make([]string, len(rows[headerAt]))
	for i, h := range rows[headerAt] {
		report.Header[i] = norm.NFC.String(strings.TrimSpace(h))
	}

	col := make(map[string]int, len(report.Header))
	for i, h := range report.Header {
		col[h] = i
	}
	var products, states, regions common.Distinct

	cw := csv.NewWriter(w)
	if err := cw.Write(report.Header); err != nil {
		return report, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows[headerAt+1:] {
		if blank(row) {
			continue
		}
		out := make([]string, len(report.Header))
		copy(out, row)
		for _, name := range dateColumns {
			if i, ok := col[name]; ok {
				out[i] = surveyDate(out[i], date1904)
			}
		}

		products.Add(cell(out, col, fuel.ColProduct))
		states.Add(cell(out, col, fuel.ColState))
		regions.Add(cell(out, col, fuel.ColRegion))

		if err := cw.Write(out); err != nil {
			return report, fmt.Errorf("write csv row: %w", err)
		}
		report.Rows++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return report, fmt.Errorf("flush csv: %w", err)
	}

	report.Products = products.Values()
	report.States = states.Values()
	report.Regions = regions.Values()

	entry.WithFields(logger.Fields{
		"sheet":    report.Sheet,
		"rows":     report.Rows,
		"products": len(report.Products),
		"states":   len(report.States),
		"regions":  len(report.Regions),
	}).Info("workbook converted")
	return report, nil
}

// findHeader returns the index of the first row naming a survey column.
func findHeader(rows [][]string) int {
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		text := norm.NFC.String(strings.ToUpper(strings.Join(rows[i], "|")))
		if common.HasAny(text, fuel.RequiredColumns...) {
			return i
		}
	}
	return -1
}

// surveyDate rewrites an Excel date serial as M/D/YY. Text dates pass through.
func surveyDate(v string, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return v
	}
	return t.Format(surveyDateLayout)
}

func cell(row []string, col map[string]int, name string) string {
	if i, ok := col[name]; ok && i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
