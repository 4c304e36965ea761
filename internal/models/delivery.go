package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryType string

const (
	DeliveryStationToZone   DeliveryType = "estacion_zona"  // efectivo que la estación entrega al gerente
	DeliveryZoneToDirection DeliveryType = "zona_direccion" // efectivo que el gerente envía a dirección
)

func (t DeliveryType) Valid() bool {
	return t == DeliveryStationToZone || t == DeliveryZoneToDirection
}

type Delivery struct {
	ID          uint `gorm:"primaryKey"`
	ZoneID      uint `gorm:"index;not null"`
	Zone        Zone
	StationID   *uint `gorm:"index"` // obligatorio para estacion_zona
	Station     *Station
	Type        DeliveryType    `gorm:"size:20;not null;index"`
	Date        time.Time       `gorm:"type:date;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"size:255"`
	CreatedBy   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
