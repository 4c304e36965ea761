// Package memory es una implementación en memoria de storage.Repository.
// Las transacciones trabajan sobre una copia del estado y la publican solo si
// terminan sin error, y se ejecutan de a una.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
)

type state struct {
	nextID     uint
	zones      map[uint]models.Zone
	stations   map[uint]models.Station
	periods    map[uint]models.Period
	closures   map[uint]models.ClosurePeriod
	reports    map[uint]models.DailyReport
	summaries  map[uint]models.MonthlySummary
	deliveries map[uint]models.Delivery
	expenses   map[uint]models.Expense
	balances   map[uint]models.InitialBalance
	audits     []models.AuditLog
}

func newState() *state {
	return &state{
		zones:      map[uint]models.Zone{},
		stations:   map[uint]models.Station{},
		periods:    map[uint]models.Period{},
		closures:   map[uint]models.ClosurePeriod{},
		reports:    map[uint]models.DailyReport{},
		summaries:  map[uint]models.MonthlySummary{},
		deliveries: map[uint]models.Delivery{},
		expenses:   map[uint]models.Expense{},
		balances:   map[uint]models.InitialBalance{},
	}
}

func copyMap[T any](in map[uint]T) map[uint]T {
	out := make(map[uint]T, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		nextID:     s.nextID,
		zones:      copyMap(s.zones),
		stations:   copyMap(s.stations),
		periods:    copyMap(s.periods),
		closures:   copyMap(s.closures),
		reports:    copyMap(s.reports),
		summaries:  copyMap(s.summaries),
		deliveries: copyMap(s.deliveries),
		expenses:   copyMap(s.expenses),
		balances:   copyMap(s.balances),
		audits:     append([]models.AuditLog(nil), s.audits...),
	}
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

type Store struct {
	mu     sync.RWMutex
	st     *state
	faults map[string]error
	now    func() time.Time
}

var _ storage.Repository = (*Store)(nil)

func New() *Store {
	return &Store{st: newState(), faults: map[string]error{}, now: time.Now}
}

// FailOn hace que la operación op (nombre del método) devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) Transaction(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(&view{st: work, store: s}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) read() (*view, func()) {
	s.mu.RLock()
	return &view{st: s.st, store: s}, s.mu.RUnlock
}

func (s *Store) FindZone(ctx context.Context, zoneID uint) (*models.Zone, error) {
	v, done := s.read()
	defer done()
	return v.FindZone(ctx, zoneID)
}

func (s *Store) ListZones(ctx context.Context) ([]models.Zone, error) {
	v, done := s.read()
	defer done()
	return v.ListZones(ctx)
}

func (s *Store) ActiveStations(ctx context.Context, zoneID uint) ([]models.Station, error) {
	v, done := s.read()
	defer done()
	return v.ActiveStations(ctx, zoneID)
}

func (s *Store) FindPeriod(ctx context.Context, year, month int) (*models.Period, error) {
	v, done := s.read()
	defer done()
	return v.FindPeriod(ctx, year, month)
}

func (s *Store) FindPeriodByID(ctx context.Context, periodID uint) (*models.Period, error) {
	v, done := s.read()
	defer done()
	return v.FindPeriodByID(ctx, periodID)
}

func (s *Store) FindClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error) {
	v, done := s.read()
	defer done()
	return v.FindClosure(ctx, zoneID, periodID)
}

func (s *Store) ReportDayCounts(ctx context.Context, stationIDs []uint, start, end time.Time) (map[uint]storage.DayCount, error) {
	v, done := s.read()
	defer done()
	return v.ReportDayCounts(ctx, stationIDs, start, end)
}

func (s *Store) ApprovedReports(ctx context.Context, stationIDs []uint, start, end time.Time) ([]models.DailyReport, error) {
	v, done := s.read()
	defer done()
	return v.ApprovedReports(ctx, stationIDs, start, end)
}

func (s *Store) ListSummaries(ctx context.Context, zoneID, periodID uint) ([]models.MonthlySummary, error) {
	v, done := s.read()
	defer done()
	return v.ListSummaries(ctx, zoneID, periodID)
}

func (s *Store) Deliveries(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Delivery, error) {
	v, done := s.read()
	defer done()
	return v.Deliveries(ctx, zoneID, start, end)
}

func (s *Store) Expenses(ctx context.Context, zoneID uint, start, end time.Time) ([]models.Expense, error) {
	v, done := s.read()
	defer done()
	return v.Expenses(ctx, zoneID, start, end)
}

func (s *Store) InitialBalance(ctx context.Context, zoneID, periodID uint) (decimal.Decimal, error) {
	v, done := s.read()
	defer done()
	return v.InitialBalance(ctx, zoneID, periodID)
}

// view implementa storage.Tx sobre un estado; quien la crea maneja el candado.
type view struct {
	st    *state
	store *Store
}

func (v *view) fault(op string) error {
	return v.store.faults[op]
}

func (v *view) FindZone(_ context.Context, zoneID uint) (*models.Zone, error) {
	if err := v.fault("FindZone"); err != nil {
		return nil, err
	}
	z, ok := v.st.zones[zoneID]
	if !ok {
		return nil, nil
	}
	return &z, nil
}

func (v *view) ListZones(_ context.Context) ([]models.Zone, error) {
	out := make([]models.Zone, 0, len(v.st.zones))
	for _, z := range v.st.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) ActiveStations(_ context.Context, zoneID uint) ([]models.Station, error) {
	if err := v.fault("ActiveStations"); err != nil {
		return nil, err
	}
	var out []models.Station
	for _, st := range v.st.stations {
		if st.ZoneID == zoneID && st.Active {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (v *view) FindPeriod(_ context.Context, year, month int) (*models.Period, error) {
	for _, p := range v.st.periods {
		if p.Year == year && p.Month == month {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (v *view) FindPeriodByID(_ context.Context, periodID uint) (*models.Period, error) {
	p, ok := v.st.periods[periodID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v *view) FindClosure(_ context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error) {
	for _, c := range v.st.closures {
		if c.ZoneID == zoneID && c.PeriodID == periodID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func inRange(d, start, end time.Time) bool {
	day := models.DateOnly(d)
	return !day.Before(models.DateOnly(start)) && !day.After(models.DateOnly(end))
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (v *view) ReportDayCounts(_ context.Context, stationIDs []uint, start, end time.Time) (map[uint]storage.DayCount, error) {
	if err := v.fault("ReportDayCounts"); err != nil {
		return nil, err
	}
	wanted := idSet(stationIDs)
	reported := map[uint]map[time.Time]bool{}
	approved := map[uint]map[time.Time]bool{}
	for _, r := range v.st.reports {
		if !wanted[r.StationID] || !inRange(r.Date, start, end) {
			continue
		}
		d := models.DateOnly(r.Date)
		if reported[r.StationID] == nil {
			reported[r.StationID] = map[time.Time]bool{}
			approved[r.StationID] = map[time.Time]bool{}
		}
		reported[r.StationID][d] = true
		if r.Status == models.ReportApproved {
			approved[r.StationID][d] = true
		}
	}
	out := make(map[uint]storage.DayCount, len(reported))
	for id, days := range reported {
		out[id] = storage.DayCount{Reported: len(days), Approved: len(approved[id])}
	}
	return out, nil
}

func (v *view) ApprovedReports(_ context.Context, stationIDs []uint, start, end time.Time) ([]models.DailyReport, error) {
	if err := v.fault("ApprovedReports"); err != nil {
		return nil, err
	}
	wanted := idSet(stationIDs)
	var out []models.DailyReport
	for _, r := range v.st.reports {
		if wanted[r.StationID] && r.Status == models.ReportApproved && inRange(r.Date, start, end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StationID != out[j].StationID {
			return out[i].StationID < out[j].StationID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (v *view) ListSummaries(_ context.Context, zoneID, periodID uint) ([]models.MonthlySummary, error) {
	var out []models.MonthlySummary
	for _, s := range v.st.summaries {
		if s.ZoneID == zoneID && s.PeriodID == periodID {
			s.Station = v.st.stations[s.StationID]
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StationID < out[j].StationID })
	return out, nil
}

func (v *view) Deliveries(_ context.Context, zoneID uint, start, end time.Time) ([]models.Delivery, error) {
	if err := v.fault("Deliveries"); err != nil {
		return nil, err
	}
	var out []models.Delivery
	for _, d := range v.st.deliveries {
		if d.ZoneID == zoneID && inRange(d.Date, start, end) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) Expenses(_ context.Context, zoneID uint, start, end time.Time) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range v.st.expenses {
		if e.ZoneID == zoneID && inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (v *view) InitialBalance(_ context.Context, zoneID, periodID uint) (decimal.Decimal, error) {
	for _, b := range v.st.balances {
		if b.ZoneID == zoneID && b.PeriodID == periodID {
			return b.Amount, nil
		}
	}
	return decimal.Zero, nil
}

func (v *view) EnsurePeriod(ctx context.Context, year, month int) (*models.Period, error) {
	if p, _ := v.FindPeriod(ctx, year, month); p != nil {
		return p, nil
	}
	p := models.NewPeriod(year, month)
	p.ID = v.st.id()
	p.CreatedAt = v.store.now()
	v.st.periods[p.ID] = p
	return &p, nil
}

func (v *view) LockClosure(ctx context.Context, zoneID, periodID uint) (*models.ClosurePeriod, error) {
	if err := v.fault("LockClosure"); err != nil {
		return nil, err
	}
	if c, _ := v.FindClosure(ctx, zoneID, periodID); c != nil {
		return c, nil
	}
	now := v.store.now()
	c := models.ClosurePeriod{ID: v.st.id(), ZoneID: zoneID, PeriodID: periodID, CreatedAt: now, UpdatedAt: now}
	v.st.closures[c.ID] = c
	return &c, nil
}

func (v *view) SaveClosure(_ context.Context, closure *models.ClosurePeriod) error {
	if err := v.fault("SaveClosure"); err != nil {
		return err
	}
	if closure.ID == 0 {
		closure.ID = v.st.id()
	}
	closure.UpdatedAt = v.store.now()
	v.st.closures[closure.ID] = *closure
	return nil
}

func (v *view) ReplaceSummaries(ctx context.Context, zoneID, periodID uint, rows []models.MonthlySummary) error {
	if err := v.fault("ReplaceSummaries"); err != nil {
		return err
	}
	if _, err := v.DeleteSummaries(ctx, zoneID, periodID); err != nil {
		return err
	}
	now := v.store.now()
	for i := range rows {
		rows[i].ID = v.st.id()
		rows[i].CreatedAt = now
		row := rows[i]
		row.Station = models.Station{}
		v.st.summaries[row.ID] = row
	}
	return nil
}

func (v *view) DeleteSummaries(_ context.Context, zoneID, periodID uint) (int64, error) {
	if err := v.fault("DeleteSummaries"); err != nil {
		return 0, err
	}
	var n int64
	for id, s := range v.st.summaries {
		if s.ZoneID == zoneID && s.PeriodID == periodID {
			delete(v.st.summaries, id)
			n++
		}
	}
	return n, nil
}

func (v *view) SaveInitialBalance(_ context.Context, balance *models.InitialBalance) error {
	now := v.store.now()
	for id, b := range v.st.balances {
		if b.ZoneID == balance.ZoneID && b.PeriodID == balance.PeriodID {
			balance.ID = id
			balance.CreatedAt = b.CreatedAt
			balance.UpdatedAt = now
			v.st.balances[id] = *balance
			return nil
		}
	}
	balance.ID = v.st.id()
	balance.CreatedAt = now
	balance.UpdatedAt = now
	v.st.balances[balance.ID] = *balance
	return nil
}

func (v *view) RecordAudit(_ context.Context, entry *models.AuditLog) error {
	if err := v.fault("RecordAudit"); err != nil {
		return err
	}
	entry.ID = v.st.id()
	entry.CreatedAt = v.store.now()
	v.st.audits = append(v.st.audits, *entry)
	return nil
}
