package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense: gasto pagado con el resguardo de la zona, opcionalmente atribuido a una estación.
type Expense struct {
	ID          uint `gorm:"primaryKey"`
	ZoneID      uint `gorm:"index;not null"`
	Zone        Zone
	StationID   *uint `gorm:"index"`
	Station     *Station
	Category    string          `gorm:"size:100;not null"`
	Date        time.Time       `gorm:"type:date;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"size:255"`
	CreatedBy   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
