package reportes

import (
	"bytes"
	"testing"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []any{"codigo_estacion", "fecha", "producto", "litros", "precio", "merma_volumen", "merma_importe", "aceites"}

func TestParseWorkbookGroupsByStationAndDate(t *testing.T) {
	buf := workbook(t, [][]any{
		header,
		{"e-0002", "2024-04-01", "Diesel", "500", "24.10", "1", "24.10", ""},
		{"E-0001", "2024-04-01", "premium", "1000", "23.50", "2", "47", "150"},
		{"E-0001", "2024-04-01", "magna", "800", "21.90", "", "", ""},
		{},
		{"E-0001", "02/04/2024", "Premium", "1,200", "23.50", "", "", ""},
	})

	reports, rowErrors, err := ParseWorkbook(buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, reports, 3)

	first := reports[0]
	assert.Equal(t, "E-0001", first.StationCode)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), first.Report.Date)
	assert.Equal(t, []int{3, 4}, first.Rows)
	assert.Equal(t, models.ReportPending, first.Report.Status)
	assert.Equal(t, "23500", first.Report.Premium.Amount.String())
	assert.Equal(t, "17520", first.Report.Magna.Amount.String())
	assert.Equal(t, "150", first.Report.OilsAmount.String())

	second := reports[1]
	assert.Equal(t, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), second.Report.Date)
	assert.Equal(t, "1200", second.Report.Premium.Volume.String())

	assert.Equal(t, "E-0002", reports[2].StationCode)
	assert.Equal(t, "24.1", reports[2].Report.Diesel.ShrinkageAmount.String())
}

func TestParseWorkbookRowErrors(t *testing.T) {
	buf := workbook(t, [][]any{
		header,
		{"E-0001", "2024-04-01", "premium", "1000", "23.50"},
		{"E-0001", "2024-04-01", "premium", "10", "23.50"},
		{"E-0001", "abril", "magna", "10", "21.90"},
		{"E-0001", "2024-04-03", "gas lp", "10", "10"},
		{"", "2024-04-03", "magna", "10", "10"},
		{"E-0001", "2024-04-04", "magna", "-5", "10"},
		{"E-0001", "2024-04-05", "magna", "diez", "10"},
	})

	reports, rowErrors, err := ParseWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "1000", reports[0].Report.Premium.Volume.String())

	rows := make([]int, 0, len(rowErrors))
	for _, e := range rowErrors {
		rows = append(rows, e.Row)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, rows)
}

func TestParseWorkbookStructureErrors(t *testing.T) {
	_, _, err := ParseWorkbook(workbook(t, [][]any{{"codigo_estacion", "fecha"}, {"E-0001", "2024-04-01"}}))
	assert.ErrorContains(t, err, "producto")

	_, _, err = ParseWorkbook(workbook(t, [][]any{header}))
	assert.Error(t, err)

	_, _, err = ParseWorkbook(bytes.NewBufferString("no es un xlsx"))
	assert.Error(t, err)
}
