package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSummary: totales del mes de un combustible.
type ProductSummary struct {
	VolumeTotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgPrice              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Σimporte / Σlitros
	ShrinkageVolumeTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShrinkageAmountTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgShrinkagePct       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EfficiencyVolumeTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EfficiencyAmountTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgEfficiencyPct      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// MonthlySummary: agregado inmutable de una estación para un período cerrado.
// Se crea al cerrar y se elimina al reabrir.
type MonthlySummary struct {
	ID        uint `gorm:"primaryKey"`
	ZoneID    uint `gorm:"not null;uniqueIndex:idx_summary_zone_period_station"`
	PeriodID  uint `gorm:"not null;uniqueIndex:idx_summary_zone_period_station"`
	StationID uint `gorm:"not null;uniqueIndex:idx_summary_zone_period_station"`
	Station   Station
	ClosureID uint `gorm:"index;not null"`

	Premium ProductSummary `gorm:"embedded;embeddedPrefix:premium_"`
	Magna   ProductSummary `gorm:"embedded;embeddedPrefix:magna_"`
	Diesel  ProductSummary `gorm:"embedded;embeddedPrefix:diesel_"`

	DaysReported int             `gorm:"not null;default:0"`
	OilsTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // combustibles + aceites

	CreatedAt time.Time
}

// Product devuelve el resumen del combustible indicado.
func (s *MonthlySummary) Product(p Product) ProductSummary {
	switch p {
	case ProductPremium:
		return s.Premium
	case ProductMagna:
		return s.Magna
	case ProductDiesel:
		return s.Diesel
	}
	return ProductSummary{}
}

// ShrinkageAmountTotal suma la merma en importe de los tres combustibles.
func (s *MonthlySummary) ShrinkageAmountTotal() decimal.Decimal {
	return s.Premium.ShrinkageAmountTotal.
		Add(s.Magna.ShrinkageAmountTotal).
		Add(s.Diesel.ShrinkageAmountTotal)
}
