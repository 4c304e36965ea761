package models

import "time"

// Zone agrupa estaciones bajo un gerente de zona.
type Zone struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Code      string `gorm:"size:20;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Stations []Station
}

type Station struct {
	ID        uint   `gorm:"primaryKey"`
	ZoneID    uint   `gorm:"index;not null"`
	Zone      Zone
	Name      string `gorm:"size:100;not null"`
	Code      string `gorm:"size:20;not null;uniqueIndex"` // clave de la estación (ej. "E-0412")
	Active    bool   `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
