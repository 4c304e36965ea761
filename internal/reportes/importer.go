package reportes

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Columnas esperadas en la primera hoja. El orden no importa; la primera fila es el encabezado.
const (
	colStation          = "codigo_estacion"
	colDate             = "fecha"
	colProduct          = "producto"
	colVolume           = "litros"
	colPrice            = "precio"
	colShrinkageVolume  = "merma_volumen"
	colShrinkageAmount  = "merma_importe"
	colShrinkagePct     = "merma_porcentaje"
	colEfficiencyVolume = "eficiencia_volumen"
	colEfficiencyAmount = "eficiencia_importe"
	colEfficiencyPct    = "eficiencia_porcentaje"
	colOils             = "aceites"
)

var requiredColumns = []string{colStation, colDate, colProduct}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006"}

type RowError struct {
	Row     int    `json:"fila"`
	Message string `json:"mensaje"`
}

// ParsedReport: un reporte por estación y fecha armado con una o más filas.
type ParsedReport struct {
	StationCode string
	Report      models.DailyReport
	Rows        []int
}

type reportKey struct {
	code string
	date time.Time
}

// ParseWorkbook lee el libro y agrupa las filas por estación y fecha. Las filas
// inválidas se devuelven en []RowError sin detener la lectura.
func ParseWorkbook(r io.Reader) ([]ParsedReport, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("no se pudo leer el archivo Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("no se pudo leer la hoja %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil, errors.New("el archivo no tiene filas de datos")
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	grouped := map[reportKey]*ParsedReport{}
	seen := map[reportKey]map[models.Product]bool{}
	var rowErrors []RowError

	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}

		code := strings.ToUpper(cell(row, colStation))
		if code == "" {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: "codigo_estacion vacío"})
			continue
		}
		date, err := parseDate(cell(row, colDate))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		product, err := parseProduct(cell(row, colProduct))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		line, oils, err := parseLine(row, cell)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		key := reportKey{code: code, date: date}
		if seen[key] == nil {
			seen[key] = map[models.Product]bool{}
		}
		if seen[key][product] {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: fmt.Sprintf("%s repetido para %s %s", product, code, date.Format("2006-01-02"))})
			continue
		}
		seen[key][product] = true

		pr, ok := grouped[key]
		if !ok {
			pr = &ParsedReport{
				StationCode: code,
				Report:      models.DailyReport{Date: date, Status: models.ReportPending},
			}
			grouped[key] = pr
		}
		*pr.Report.LinePtr(product) = line
		pr.Report.OilsAmount = pr.Report.OilsAmount.Add(oils)
		pr.Rows = append(pr.Rows, rowNum)
	}

	out := make([]ParsedReport, 0, len(grouped))
	for _, pr := range grouped {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StationCode != out[j].StationCode {
			return out[i].StationCode < out[j].StationCode
		}
		return out[i].Report.Date.Before(out[j].Report.Date)
	})
	return out, rowErrors, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}

func parseProduct(s string) (models.Product, error) {
	switch strings.ToLower(s) {
	case "premium":
		return models.ProductPremium, nil
	case "magna":
		return models.ProductMagna, nil
	case "diesel", "diésel":
		return models.ProductDiesel, nil
	}
	return "", fmt.Errorf("producto desconocido %q", s)
}

// parseDecimal acepta vacío como cero y separador de miles con coma.
func parseDecimal(col, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido %q", col, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s no puede ser negativo", col)
	}
	return d, nil
}

func parseLine(row []string, cell func([]string, string) string) (models.ProductLine, decimal.Decimal, error) {
	var line models.ProductLine
	targets := []struct {
		col string
		dst *decimal.Decimal
	}{
		{colVolume, &line.Volume},
		{colPrice, &line.Price},
		{colShrinkageVolume, &line.ShrinkageVolume},
		{colShrinkageAmount, &line.ShrinkageAmount},
		{colShrinkagePct, &line.ShrinkagePct},
		{colEfficiencyVolume, &line.EfficiencyVolume},
		{colEfficiencyAmount, &line.EfficiencyAmount},
		{colEfficiencyPct, &line.EfficiencyPct},
	}
	for _, t := range targets {
		v, err := parseDecimal(t.col, cell(row, t.col))
		if err != nil {
			return models.ProductLine{}, decimal.Zero, err
		}
		*t.dst = v
	}
	oils, err := parseDecimal(colOils, cell(row, colOils))
	if err != nil {
		return models.ProductLine{}, decimal.Zero, err
	}
	line.ComputeAmount()
	return line, oils, nil
}
