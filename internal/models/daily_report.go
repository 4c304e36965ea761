package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportStatus string

const (
	ReportPending  ReportStatus = "Pendiente"
	ReportApproved ReportStatus = "Aprobado"
	ReportRejected ReportStatus = "Rechazado"
)

type Product string

const (
	ProductPremium Product = "premium"
	ProductMagna   Product = "magna"
	ProductDiesel  Product = "diesel"
)

// Products es el orden fijo en que se reportan y agregan los combustibles.
var Products = []Product{ProductPremium, ProductMagna, ProductDiesel}

// ProductLine: venta, merma y eficiencia real de un combustible en un día.
// Todos los campos valen cero cuando no se capturaron.
type ProductLine struct {
	Volume           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"litros"`
	Price            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"precio"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"importe"`
	ShrinkageVolume  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"merma_volumen"`
	ShrinkageAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"merma_importe"`
	ShrinkagePct     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"merma_porcentaje"`
	EfficiencyVolume decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"eficiencia_volumen"`
	EfficiencyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"eficiencia_importe"`
	EfficiencyPct    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"eficiencia_porcentaje"`
}

// HasData indica si la línea tiene alguna cifra capturada ese día.
func (l ProductLine) HasData() bool {
	return !l.Volume.IsZero() || !l.ShrinkageVolume.IsZero() || !l.EfficiencyVolume.IsZero()
}

// ComputeAmount recalcula importe = precio × litros.
func (l *ProductLine) ComputeAmount() {
	l.Amount = l.Price.Mul(l.Volume).Round(4)
}

// DailyReport: un registro por estación y día. Solo se modifica mientras está Pendiente.
type DailyReport struct {
	ID        uint `gorm:"primaryKey"`
	StationID uint `gorm:"not null;uniqueIndex:idx_daily_reports_station_date"`
	Station   Station
	Date      time.Time    `gorm:"type:date;not null;uniqueIndex:idx_daily_reports_station_date;index"` // fecha UTC
	Status    ReportStatus `gorm:"size:20;not null;default:Pendiente;index"`

	Premium ProductLine `gorm:"embedded;embeddedPrefix:premium_"`
	Magna   ProductLine `gorm:"embedded;embeddedPrefix:magna_"`
	Diesel  ProductLine `gorm:"embedded;embeddedPrefix:diesel_"`

	OilsAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // venta de aceites

	CreatedBy  uint
	ReviewedBy *uint
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Line devuelve la línea del producto indicado.
func (r *DailyReport) Line(p Product) ProductLine {
	switch p {
	case ProductPremium:
		return r.Premium
	case ProductMagna:
		return r.Magna
	case ProductDiesel:
		return r.Diesel
	}
	return ProductLine{}
}

// LinePtr permite modificar la línea del producto indicado.
func (r *DailyReport) LinePtr(p Product) *ProductLine {
	switch p {
	case ProductPremium:
		return &r.Premium
	case ProductMagna:
		return &r.Magna
	case ProductDiesel:
		return &r.Diesel
	}
	return nil
}

func (r *DailyReport) IsApproved() bool { return r.Status == ReportApproved }
