// Package gormstore implementa storage.Repository sobre Postgres con gorm.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

var (
	_ storage.Repository = (*Store)(nil)
	_ storage.Tx         = (*Store)(nil)
)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction usa READ COMMITTED; la exclusión entre cierres la da LockClosure.
func (s *Store) Transaction(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// day formatea como fecha para que Postgres compare contra columnas date sin
// convertir por la zona horaria de la sesión.
func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func first[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FindZone(ctx context.Context, zoneID uint) (*models.Zone, error) {
	return first[models.Zone](s.db.WithContext(ctx).Where("id = ?", zoneID))
}

func (s *Store) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	err := s.db.WithContext(ctx).Order("id ASC").Find(&zones).Error
	return zones, err
}

func (s *Store) ActiveStations(ctx context.Context, zoneID uint) ([]models.Station, error) {
	var stations []models.Station
	err := s.db.WithContext(ctx).
		Where("zone_id = ? AND active = ?", zoneID, true).
		Order("code ASC").
		Find(&stations).Error
	return stations, err
}

func (s *Store) FindPeriod(ctx context.Context, year, month int) (*models.Period, error) {
	return first[models.Period](s.db.WithContext(ctx).Where("year = ? AND month = ?", year, month))
}

func (s *Store) FindPeriodByID(ctx context.Context, periodID uint) (*models.Period, error) {
	return first[models.Period](s.db.WithContext(ctx).Where("id = ?", periodID))
}

func (s *Store) FindClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error) {
	return first[models.ClosurePeriod](s.db.WithContext(ctx).
		Where("zone_id = ? AND period_id = ?", zoneID, periodID))
}

func (s *Store) ReportDayCounts(ctx context.Context, stationIDs []uint, start, end time.Time) (map[uint]storage.DayCount, error) {
	result := make(map[uint]storage.DayCount, len(stationIDs))
	if len(stationIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		StationID uint
		Reported  int
		Approved  int
	}
	err := s.db.WithContext(ctx).Model(&models.DailyReport{}).
		Select("station_id, COUNT(DISTINCT date) AS reported, COUNT(DISTINCT CASE WHEN status = ? THEN date END) AS approved", models.ReportApproved).
		Where("station_id IN ? AND date >= ? AND date <= ?", stationIDs, day(start), day(end)).
		Group("station_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		result[r.StationID] = storage.DayCount{Reported: r.Reported, Approved: r.Approved}
	}
	return result, nil
}

func (s *Store) ApprovedReports(ctx context.Context, stationIDs []uint, start, end time.Time) ([]models.DailyReport, error) {
	if len(stationIDs) == 0 {
		return nil, nil
	}
	var reports []models.DailyReport
	err := s.db.WithContext(ctx).
		Where("station_id IN ? AND status = ? AND date >= ? AND date <= ?", stationIDs, models.ReportApproved, day(start), day(end)).
		Order("station_id ASC, date ASC").
		Find(&reports).Error
	return reports, err
}

func (s *Store) ListSummaries(ctx context.Context, zoneID, periodID uint) ([]models.MonthlySummary, error) {
	var rows []models.MonthlySummary
	err := s.db.WithContext(ctx).
		Preload("Station").
		Where("zone_id = ? AND period_id = ?", zoneID, periodID).
		Order("station_id ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Store) Deliveries(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Delivery, error) {
	var rows []models.Delivery
	err := s.db.WithContext(ctx).
		Where("zone_id = ? AND date >= ? AND date <= ?", zoneID, day(start), day(end)).
		Order("date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Store) Expenses(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Expense, error) {
	var rows []models.Expense
	err := s.db.WithContext(ctx).
		Where("zone_id = ? AND date >= ? AND date <= ?", zoneID, day(start), day(end)).
		Order("date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Store) InitialBalance(ctx context.Context, zoneID, periodID uint) (decimal.Decimal, error) {
	b, err := first[models.InitialBalance](s.db.WithContext(ctx).
		Where("zone_id = ? AND period_id = ?", zoneID, periodID))
	if err != nil || b == nil {
		return decimal.Zero, err
	}
	return b.Amount, nil
}

func (s *Store) EnsurePeriod(ctx context.Context, year, month int) (*models.Period, error) {
	p := models.NewPeriod(year, month)
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "year"}, {Name: "month"}}, DoNothing: true}).
		Create(&p).Error; err != nil {
		return nil, err
	}
	return s.FindPeriod(ctx, year, month)
}

func (s *Store) LockClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error) {
	row := models.ClosurePeriod{ZoneID: zoneID, PeriodID: periodID}
	if err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "zone_id"}, {Name: "period_id"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	var locked models.ClosurePeriod
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("zone_id = ? AND period_id = ?", zoneID, periodID).
		First(&locked).Error; err != nil {
		return nil, err
	}
	return &locked, nil
}

func (s *Store) SaveClosure(ctx context.Context, closure *models.ClosurePeriod) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(closure).Error
}

func (s *Store) ReplaceSummaries(ctx context.Context, zoneID, periodID uint, rows []models.MonthlySummary) error {
	if _, err := s.DeleteSummaries(ctx, zoneID, periodID); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error
}

func (s *Store) DeleteSummaries(ctx context.Context, zoneID, periodID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("zone_id = ? AND period_id = ?", zoneID, periodID).
		Delete(&models.MonthlySummary{})
	return res.RowsAffected, res.Error
}

func (s *Store) SaveInitialBalance(ctx context.Context, balance *models.InitialBalance) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "zone_id"}, {Name: "period_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_by", "updated_at"}),
		}).
		Create(balance).Error
}

func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
