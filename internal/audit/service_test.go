package audit

import (
	"testing"

	"reporteventas-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewEntry(t *testing.T) {
	zone := uint(4)
	entry := NewEntry(LogOptions{
		ZoneID:      &zone,
		UserID:      1,
		UserName:    "Admin",
		EntityType:  EntityClosure,
		EntityID:    9,
		Action:      models.AuditActionClose,
		Description: "Cierre 2024-03",
		After:       map[string]any{"cerrado": true},
	})

	assert.Equal(t, "null", entry.BeforeData)
	assert.JSONEq(t, `{"cerrado":true}`, entry.AfterData)
	assert.Equal(t, &zone, entry.ZoneID)
	assert.Equal(t, models.AuditActionClose, entry.Action)
}

func TestNewEntryUnmarshalableData(t *testing.T) {
	entry := NewEntry(LogOptions{Before: make(chan int)})
	assert.Equal(t, "null", entry.BeforeData)
}
