package conciliacion

import (
	"context"
	"time"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
)

// Source son las lecturas que necesita la conciliación. storage.Reader la cumple.
//
//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=source.go Source
type Source interface {
	FindZone(ctx context.Context, zoneID uint) (*models.Zone, error)
	ListZones(ctx context.Context) ([]models.Zone, error)
	ActiveStations(ctx context.Context, zoneID uint) ([]models.Station, error)
	FindPeriod(ctx context.Context, year, month int) (*models.Period, error)
	FindClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error)
	ReportDayCounts(ctx context.Context, stationIDs []uint, start, end time.Time) (map[uint]storage.DayCount, error)
	ApprovedReports(ctx context.Context, stationIDs []uint, start, end time.Time) ([]models.DailyReport, error)
	ListSummaries(ctx context.Context, zoneID, periodID uint) ([]models.MonthlySummary, error)
	Deliveries(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Delivery, error)
	Expenses(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Expense, error)
	InitialBalance(ctx context.Context, zoneID, periodID uint) (decimal.Decimal, error)
}

var _ Source = (storage.Reader)(nil)
