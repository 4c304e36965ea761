// Package reportes maneja el reporte diario de ventas por estación: captura,
// corrección mientras está pendiente, revisión e importación desde Excel.
package reportes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"

	"github.com/shopspring/decimal"
)

type LineaRequest struct {
	Volume           decimal.Decimal `json:"litros"`
	Price            decimal.Decimal `json:"precio"`
	ShrinkageVolume  decimal.Decimal `json:"merma_volumen"`
	ShrinkageAmount  decimal.Decimal `json:"merma_importe"`
	ShrinkagePct     decimal.Decimal `json:"merma_porcentaje"`
	EfficiencyVolume decimal.Decimal `json:"eficiencia_volumen"`
	EfficiencyAmount decimal.Decimal `json:"eficiencia_importe"`
	EfficiencyPct    decimal.Decimal `json:"eficiencia_porcentaje"`
}

type ReportRequest struct {
	StationID uint            `json:"estacion_id" validate:"required"`
	Date      string          `json:"fecha" validate:"required"` // "2024-04-15"
	Premium   *LineaRequest   `json:"premium"`
	Magna     *LineaRequest   `json:"magna"`
	Diesel    *LineaRequest   `json:"diesel"`
	Oils      decimal.Decimal `json:"aceites"`
}

type LineaResponse struct {
	Volume           money.Fixed `json:"litros"`
	Price            money.Fixed `json:"precio"`
	Amount           money.Fixed `json:"importe"`
	ShrinkageVolume  money.Fixed `json:"merma_volumen"`
	ShrinkageAmount  money.Fixed `json:"merma_importe"`
	ShrinkagePct     money.Fixed `json:"merma_porcentaje"`
	EfficiencyVolume money.Fixed `json:"eficiencia_volumen"`
	EfficiencyAmount money.Fixed `json:"eficiencia_importe"`
	EfficiencyPct    money.Fixed `json:"eficiencia_porcentaje"`
}

type ReportResponse struct {
	ID          uint                `json:"id"`
	StationID   uint                `json:"estacion_id"`
	StationName string              `json:"estacion_nombre,omitempty"`
	Date        string              `json:"fecha"`
	Status      models.ReportStatus `json:"estado"`
	Premium     LineaResponse       `json:"premium"`
	Magna       LineaResponse       `json:"magna"`
	Diesel      LineaResponse       `json:"diesel"`
	Oils        money.Fixed         `json:"aceites"`
	ReviewedBy  *uint               `json:"revisado_por,omitempty"`
	ReviewedAt  *string             `json:"revisado_en,omitempty"`
}

func newLineaResponse(l models.ProductLine) LineaResponse {
	return LineaResponse{
		Volume:           money.Four(l.Volume),
		Price:            money.Four(l.Price),
		Amount:           money.Four(l.Amount),
		ShrinkageVolume:  money.Four(l.ShrinkageVolume),
		ShrinkageAmount:  money.Four(l.ShrinkageAmount),
		ShrinkagePct:     money.Four(l.ShrinkagePct),
		EfficiencyVolume: money.Four(l.EfficiencyVolume),
		EfficiencyAmount: money.Four(l.EfficiencyAmount),
		EfficiencyPct:    money.Four(l.EfficiencyPct),
	}
}

func NewReportResponse(r models.DailyReport) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID,
		StationID:   r.StationID,
		StationName: r.Station.Name,
		Date:        r.Date.Format("2006-01-02"),
		Status:      r.Status,
		Premium:     newLineaResponse(r.Premium),
		Magna:       newLineaResponse(r.Magna),
		Diesel:      newLineaResponse(r.Diesel),
		Oils:        money.Four(r.OilsAmount),
		ReviewedBy:  r.ReviewedBy,
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

func (l *LineaRequest) toLine(p models.Product) (models.ProductLine, error) {
	if l == nil {
		return models.ProductLine{}, nil
	}
	values := map[string]decimal.Decimal{
		"litros":             l.Volume,
		"precio":             l.Price,
		"merma_volumen":      l.ShrinkageVolume,
		"merma_importe":      l.ShrinkageAmount,
		"eficiencia_volumen": l.EfficiencyVolume,
		"eficiencia_importe": l.EfficiencyAmount,
	}
	for name, v := range values {
		if v.IsNegative() {
			return models.ProductLine{}, fmt.Errorf("%s.%s no puede ser negativo", p, name)
		}
	}
	line := models.ProductLine{
		Volume:           l.Volume,
		Price:            l.Price,
		ShrinkageVolume:  l.ShrinkageVolume,
		ShrinkageAmount:  l.ShrinkageAmount,
		ShrinkagePct:     l.ShrinkagePct,
		EfficiencyVolume: l.EfficiencyVolume,
		EfficiencyAmount: l.EfficiencyAmount,
		EfficiencyPct:    l.EfficiencyPct,
	}
	line.ComputeAmount()
	return line, nil
}

// buildReport convierte la solicitud en un reporte Pendiente.
func buildReport(body ReportRequest) (models.DailyReport, error) {
	date, err := models.ParseDate(strings.TrimSpace(body.Date))
	if err != nil {
		return models.DailyReport{}, errors.New("fecha debe tener formato AAAA-MM-DD")
	}
	if body.Oils.IsNegative() {
		return models.DailyReport{}, errors.New("aceites no puede ser negativo")
	}

	r := models.DailyReport{
		StationID:  body.StationID,
		Date:       date,
		Status:     models.ReportPending,
		OilsAmount: body.Oils,
	}
	lines := map[models.Product]*LineaRequest{
		models.ProductPremium: body.Premium,
		models.ProductMagna:   body.Magna,
		models.ProductDiesel:  body.Diesel,
	}
	for _, p := range models.Products {
		line, err := lines[p].toLine(p)
		if err != nil {
			return models.DailyReport{}, err
		}
		*r.LinePtr(p) = line
	}
	return r, nil
}

// applyReview valida la transición Pendiente -> Aprobado/Rechazado.
func applyReview(r *models.DailyReport, to models.ReportStatus, reviewer uint, at time.Time) error {
	if to != models.ReportApproved && to != models.ReportRejected {
		return fmt.Errorf("estado destino inválido: %s", to)
	}
	if r.Status != models.ReportPending {
		return fmt.Errorf("el reporte ya fue revisado (%s)", r.Status)
	}
	r.Status = to
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &at
	return nil
}
