package convert

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/logger"
)

func buildWorkbook(t *testing.T) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	notes := f.GetSheetName(0)
	require.NoError(t, f.SetSheetName(notes, "Notas"))
	require.NoError(t, f.SetSheetRow("Notas", "A1", &[]interface{}{"Fonte: ANP"}))

	_, err := f.NewSheet("Dados")
	require.NoError(t, err)
	rows := [][]interface{}{
		{"Levantamento de preços"},
		{"DATA INICIAL", "REGIÃO", "ESTADO", "PRODUTO", "NÚMERO DE POSTOS PESQUISADOS", "PREÇO MÉDIO REVENDA"},
		{"5/9/04", "SUL", "PARANÁ", "GLP", "100", "30"},
		{"5/9/04", "NORTE", "ACRE", "GLP", "20", "40"},
		{},
		{"5/9/04", "SUL", "PARANÁ", "ÓLEO DIESEL", "80"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Dados", cellRef, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestWorkbookToCSV(t *testing.T) {
	var out bytes.Buffer
	report, err := WorkbookToCSV(buildWorkbook(t), &out, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, "Dados", report.Sheet)
	assert.Len(t, report.Sheets, 2)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, []string{"GLP", "ÓLEO DIESEL"}, report.Products)
	assert.Equal(t, []string{"PARANÁ", "ACRE"}, report.States)
	assert.Equal(t, []string{"SUL", "NORTE"}, report.Regions)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "DATA INICIAL,REGIÃO,ESTADO,PRODUTO,NÚMERO DE POSTOS PESQUISADOS,PREÇO MÉDIO REVENDA", lines[0])
	assert.Equal(t, "5/9/04,SUL,PARANÁ,ÓLEO DIESEL,80,", lines[3])
}

func TestConvertedOutputLoads(t *testing.T) {
	var out bytes.Buffer
	_, err := WorkbookToCSV(buildWorkbook(t), &out, logger.Discard())
	require.NoError(t, err)

	records, stats, err := fuel.Load(context.Background(), &out, fuel.NewParser(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, "BR-AC", records[1].StateCode)
}

func TestDateCellsBecomeSurveyDates(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{
		"DATA INICIAL", "DATA FINAL", "REGIÃO", "ESTADO", "PRODUTO", "PREÇO MÉDIO REVENDA",
	}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{
		time.Date(2004, 5, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2004, 5, 15, 0, 0, 0, 0, time.UTC),
		"SUL", "PARANÁ", "GLP", 30.5,
	}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "B2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = WorkbookToCSV(bytes.NewReader(buf.Bytes()), &out, logger.Discard())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "5/9/04,5/15/04,SUL,PARANÁ,GLP,30.5", lines[1])

	records, stats, err := fuel.Load(context.Background(), &out, fuel.NewParser(nil))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, stats.Undated)
	assert.Equal(t, "2004-05-09", records[0].PeriodStart.Format("2006-01-02"))
	assert.Equal(t, "2004-05-15", records[0].PeriodEnd.Format("2006-01-02"))
}

func TestSurveyDate(t *testing.T) {
	assert.Equal(t, "5/9/04", surveyDate("38116", false))
	assert.Equal(t, "5/9/04", surveyDate("5/9/04", false))
	assert.Equal(t, "", surveyDate("", false))
}

func TestWorkbookWithoutSurveyHeader(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &[]interface{}{"nothing", "here"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = WorkbookToCSV(bytes.NewReader(buf.Bytes()), &bytes.Buffer{}, logger.Discard())
	assert.ErrorIs(t, err, fuel.ErrMissingColumns)
}

func TestNotAWorkbook(t *testing.T) {
	_, err := WorkbookToCSV(strings.NewReader("plain text"), &bytes.Buffer{}, logger.Discard())
	assert.ErrorContains(t, err, "open workbook")
}
