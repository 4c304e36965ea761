package memory

import (
	"context"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Helpers para cargar datos de prueba; no forman parte de storage.Repository.

func (s *Store) AddZone(name string) models.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	z := models.Zone{ID: s.st.id(), Name: name, CreatedAt: s.now()}
	s.st.zones[z.ID] = z
	return z
}

func (s *Store) AddStation(zoneID uint, name, code string, active bool) models.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := models.Station{ID: s.st.id(), ZoneID: zoneID, Name: name, Code: code, Active: active, CreatedAt: s.now()}
	s.st.stations[st.ID] = st
	return st
}

// AddReport guarda el reporte con la fecha truncada al día UTC.
func (s *Store) AddReport(r models.DailyReport) models.DailyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.st.id()
	r.Date = models.DateOnly(r.Date)
	if r.Status == "" {
		r.Status = models.ReportPending
	}
	s.st.reports[r.ID] = r
	return r
}

// SetReportStatus cambia el estado de un reporte ya cargado.
func (s *Store) SetReportStatus(reportID uint, status models.ReportStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reports[reportID]
	if !ok {
		return
	}
	r.Status = status
	s.st.reports[reportID] = r
}

func (s *Store) AddDelivery(d models.Delivery) models.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.st.id()
	d.Date = models.DateOnly(d.Date)
	s.st.deliveries[d.ID] = d
	return d
}

func (s *Store) AddExpense(e models.Expense) models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.st.id()
	e.Date = models.DateOnly(e.Date)
	s.st.expenses[e.ID] = e
	return e
}

// SetInitialBalance registra el saldo inicial creando el período si hace falta.
func (s *Store) SetInitialBalance(zoneID uint, year, month int, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &view{st: s.st, store: s}
	p, _ := v.EnsurePeriod(context.Background(), year, month)
	_ = v.SaveInitialBalance(context.Background(), &models.InitialBalance{ZoneID: zoneID, PeriodID: p.ID, Amount: amount})
}

func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AuditLog(nil), s.st.audits...)
}

// SetClock fija el reloj usado para CreatedAt/UpdatedAt.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
