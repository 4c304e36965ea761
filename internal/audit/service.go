package audit

import (
	"encoding/json"
	"fmt"

	"reporteventas-backend/internal/models"

	"gorm.io/gorm"
)

// Tipos de entidad registrados en la bitácora.
const (
	EntityClosure        = "cierre_periodo"
	EntityDailyReport    = "reporte_diario"
	EntityDelivery       = "entrega"
	EntityExpense        = "gasto"
	EntityInitialBalance = "saldo_inicial"
	EntityZone           = "zona"
	EntityStation        = "estacion"
	EntityAPIKey         = "api_key"
)

type LogOptions struct {
	ZoneID      *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func marshalData(v any) string {
	// jsonb no acepta cadena vacía
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// NewEntry arma la fila de bitácora sin guardarla.
func NewEntry(opts LogOptions) *models.AuditLog {
	return &models.AuditLog{
		ZoneID:      opts.ZoneID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  marshalData(opts.Before),
		AfterData:   marshalData(opts.After),
	}
}

// WriteLog guarda la entrada con db, que puede ser una transacción en curso.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	if err := db.Create(NewEntry(opts)).Error; err != nil {
		return fmt.Errorf("no se pudo guardar la bitácora: %w", err)
	}
	return nil
}
