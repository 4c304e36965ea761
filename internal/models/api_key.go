package models

import "time"

// APIKey: credencial de un socio externo para el reporte de conciliación.
// Solo se guarda el hash del secreto.
type APIKey struct {
	ID         uint   `gorm:"primaryKey"`
	KeyID      string `gorm:"size:36;not null;uniqueIndex"`
	Name       string `gorm:"size:100;not null"`
	SecretHash string `gorm:"size:255;not null"`
	ZoneID     *uint  // nil: todas las zonas
	Active     bool   `gorm:"not null;default:true"`
	LastUsedAt *time.Time
	CreatedBy  uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
