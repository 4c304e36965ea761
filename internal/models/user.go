package models

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleZoneManager UserRole = "gerente_zona"
)

// Valid indica si el rol es uno de los conocidos.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleZoneManager
}

type User struct {
	ID           uint `gorm:"primaryKey"`
	ZoneID       *uint
	Zone         *Zone
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
