// Package storage define el acceso a datos del motor de cierre mensual.
// Las búsquedas puntuales devuelven (nil, nil) cuando el registro no existe.
package storage

import (
	"context"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/shopspring/decimal"
)

// DayCount: días distintos con reporte (cualquier estado) y días aprobados.
type DayCount struct {
	Reported int
	Approved int
}

// Reader agrupa las lecturas; se puede usar dentro o fuera de una transacción.
type Reader interface {
	FindZone(ctx context.Context, zoneID uint) (*models.Zone, error)
	ListZones(ctx context.Context) ([]models.Zone, error)
	ActiveStations(ctx context.Context, zoneID uint) ([]models.Station, error)
	FindPeriod(ctx context.Context, year, month int) (*models.Period, error)
	FindPeriodByID(ctx context.Context, periodID uint) (*models.Period, error)
	FindClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error)
	ReportDayCounts(ctx context.Context, stationIDs []uint, start, end time.Time) (map[uint]DayCount, error)
	ApprovedReports(ctx context.Context, stationIDs []uint, start, end time.Time) ([]models.DailyReport, error)
	ListSummaries(ctx context.Context, zoneID, periodID uint) ([]models.MonthlySummary, error)
	Deliveries(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Delivery, error)
	Expenses(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Expense, error)
	InitialBalance(ctx context.Context, zoneID, periodID uint) (decimal.Decimal, error)
}

// Tx son las operaciones disponibles dentro de una transacción.
type Tx interface {
	Reader
	EnsurePeriod(ctx context.Context, year, month int) (*models.Period, error)
	// LockClosure crea la fila de cierre (abierta) si no existe y la bloquea hasta el fin de la transacción.
	LockClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error)
	SaveClosure(ctx context.Context, closure *models.ClosurePeriod) error
	// ReplaceSummaries borra los resúmenes de (zona, período) e inserta rows.
	ReplaceSummaries(ctx context.Context, zoneID, periodID uint, rows []models.MonthlySummary) error
	DeleteSummaries(ctx context.Context, zoneID, periodID uint) (int64, error)
	SaveInitialBalance(ctx context.Context, balance *models.InitialBalance) error
	RecordAudit(ctx context.Context, entry *models.AuditLog) error
}

type Repository interface {
	Reader
	// Transaction ejecuta fn en una sola transacción; si fn devuelve error no queda nada escrito.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}
