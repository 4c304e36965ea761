// Package ledger registra los movimientos de efectivo de la zona: entregas
// (estación → zona y zona → dirección) y gastos pagados con el resguardo.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"

	"github.com/shopspring/decimal"
)

type CreateDeliveryRequest struct {
	ZoneID      uint                `json:"zona_id"` // opcional para el gerente de zona
	StationID   *uint               `json:"estacion_id"`
	Type        models.DeliveryType `json:"tipo" validate:"required"`
	Date        string              `json:"fecha"` // vacío: hoy
	Amount      decimal.Decimal     `json:"monto"`
	Description string              `json:"descripcion" validate:"max=255"`
}

type CreateExpenseRequest struct {
	ZoneID      uint            `json:"zona_id"`
	StationID   *uint           `json:"estacion_id"`
	Category    string          `json:"categoria" validate:"required,max=100"`
	Date        string          `json:"fecha"`
	Amount      decimal.Decimal `json:"monto"`
	Description string          `json:"descripcion" validate:"max=255"`
}

type DeliveryResponse struct {
	ID          uint                `json:"id"`
	ZoneID      uint                `json:"zona_id"`
	StationID   *uint               `json:"estacion_id"`
	Type        models.DeliveryType `json:"tipo"`
	Date        string              `json:"fecha"`
	Amount      money.Fixed         `json:"monto"`
	Description string              `json:"descripcion"`
}

type ExpenseResponse struct {
	ID          uint        `json:"id"`
	ZoneID      uint        `json:"zona_id"`
	StationID   *uint       `json:"estacion_id"`
	Category    string      `json:"categoria"`
	Date        string      `json:"fecha"`
	Amount      money.Fixed `json:"monto"`
	Description string      `json:"descripcion"`
}

type SummaryItem struct {
	Key   string      `json:"clave"`
	Total money.Fixed `json:"total"`
}

type MonthlySummaryResponse struct {
	ZoneID     uint          `json:"zona_id"`
	Year       int           `json:"anio"`
	Month      int           `json:"mes"`
	Items      []SummaryItem `json:"items"`
	GrandTotal money.Fixed   `json:"total_general"`
}

func NewDeliveryResponse(d models.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:          d.ID,
		ZoneID:      d.ZoneID,
		StationID:   d.StationID,
		Type:        d.Type,
		Date:        d.Date.Format("2006-01-02"),
		Amount:      money.Two(d.Amount),
		Description: d.Description,
	}
}

func NewExpenseResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		ZoneID:      e.ZoneID,
		StationID:   e.StationID,
		Category:    e.Category,
		Date:        e.Date.Format("2006-01-02"),
		Amount:      money.Two(e.Amount),
		Description: e.Description,
	}
}

// entryDate interpreta la fecha del movimiento; vacío es hoy (UTC).
func entryDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DateOnly(now.UTC()), nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.New("fecha debe tener formato AAAA-MM-DD")
	}
	return d, nil
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.New("monto debe ser mayor a 0")
	}
	if amount.Exponent() < -4 {
		return errors.New("monto admite hasta 4 decimales")
	}
	return nil
}

func buildDelivery(body CreateDeliveryRequest, zoneID uint, now time.Time) (models.Delivery, error) {
	if !body.Type.Valid() {
		return models.Delivery{}, fmt.Errorf("tipo inválido (%s|%s)", models.DeliveryStationToZone, models.DeliveryZoneToDirection)
	}
	switch {
	case body.Type == models.DeliveryStationToZone && body.StationID == nil:
		return models.Delivery{}, errors.New("estacion_id es obligatorio para entregas estacion_zona")
	case body.Type == models.DeliveryZoneToDirection && body.StationID != nil:
		return models.Delivery{}, errors.New("las entregas zona_direccion no llevan estación")
	}
	if err := checkAmount(body.Amount); err != nil {
		return models.Delivery{}, err
	}
	date, err := entryDate(body.Date, now)
	if err != nil {
		return models.Delivery{}, err
	}
	return models.Delivery{
		ZoneID:      zoneID,
		StationID:   body.StationID,
		Type:        body.Type,
		Date:        date,
		Amount:      body.Amount,
		Description: strings.TrimSpace(body.Description),
	}, nil
}

func buildExpense(body CreateExpenseRequest, zoneID uint, now time.Time) (models.Expense, error) {
	category := strings.TrimSpace(body.Category)
	if category == "" {
		return models.Expense{}, errors.New("categoria es obligatoria")
	}
	if err := checkAmount(body.Amount); err != nil {
		return models.Expense{}, err
	}
	date, err := entryDate(body.Date, now)
	if err != nil {
		return models.Expense{}, err
	}
	return models.Expense{
		ZoneID:      zoneID,
		StationID:   body.StationID,
		Category:    category,
		Date:        date,
		Amount:      body.Amount,
		Description: strings.TrimSpace(body.Description),
	}, nil
}
