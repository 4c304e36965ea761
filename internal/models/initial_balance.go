package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialBalance: resguardo arrastrado del período anterior para una zona.
type InitialBalance struct {
	ID        uint            `gorm:"primaryKey"`
	ZoneID    uint            `gorm:"not null;uniqueIndex:idx_initial_balance_zone_period"`
	PeriodID  uint            `gorm:"not null;uniqueIndex:idx_initial_balance_zone_period"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UpdatedBy uint
	CreatedAt time.Time
	UpdatedAt time.Time
}
