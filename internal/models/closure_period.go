package models

import "time"

// ClosurePeriod: estado de cierre de una zona para un período. Hay una sola fila
// por (zona, período); reabrir no la borra, deja registrado quién y cuándo.
type ClosurePeriod struct {
	ID           uint `gorm:"primaryKey"`
	ZoneID       uint `gorm:"not null;uniqueIndex:idx_closure_zone_period"`
	PeriodID     uint `gorm:"not null;uniqueIndex:idx_closure_zone_period"`
	Period       Period
	IsClosed     bool `gorm:"not null;default:false"`
	ClosedAt     *time.Time
	ClosedBy     *uint
	Observations string `gorm:"size:500"`
	ReopenedAt   *time.Time
	ReopenedBy   *uint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
