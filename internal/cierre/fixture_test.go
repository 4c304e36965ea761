package cierre

import (
	"context"
	"testing"
	"time"

	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage/memory"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// Abril 2024 tiene 30 días.
const (
	testYear  = 2024
	testMonth = 4
)

type fixture struct {
	store *memory.Store
	svc   *Service
	logs  *test.Hook
	zone  models.Zone
	a, b  models.Station
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	zone := store.AddZone("Zona Norte")
	a := store.AddStation(zone.ID, "Estación Centro", "E-0001", true)
	b := store.AddStation(zone.ID, "Estación Libramiento", "E-0002", true)
	store.AddStation(zone.ID, "Estación Cerrada", "E-0003", false)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	svc := NewService(store, nil, logger)
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC) }

	return &fixture{store: store, svc: svc, logs: hook, zone: zone, a: a, b: b}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(testYear, testMonth, d, 0, 0, 0, 0, time.UTC)
}

// sampleReport: premium 1000 L a 23.50 y magna 800 L a 21.90, sin diésel.
func sampleReport(stationID uint, date time.Time, status models.ReportStatus) models.DailyReport {
	r := models.DailyReport{
		StationID: stationID,
		Date:      date,
		Status:    status,
		Premium: models.ProductLine{
			Volume:           dec("1000"),
			Price:            dec("23.50"),
			ShrinkageVolume:  dec("2"),
			ShrinkageAmount:  dec("47"),
			ShrinkagePct:     dec("0.2"),
			EfficiencyVolume: dec("1.5"),
			EfficiencyAmount: dec("35.25"),
			EfficiencyPct:    dec("0.15"),
		},
		Magna: models.ProductLine{
			Volume:          dec("800"),
			Price:           dec("21.90"),
			ShrinkageVolume: dec("1"),
			ShrinkageAmount: dec("21.90"),
			ShrinkagePct:    dec("0.125"),
		},
		OilsAmount: dec("150"),
	}
	r.Premium.ComputeAmount()
	r.Magna.ComputeAmount()
	return r
}

// fillDays carga un reporte por día del 1 a days con el estado dado.
func (f *fixture) fillDays(st models.Station, days int, status models.ReportStatus) []models.DailyReport {
	out := make([]models.DailyReport, 0, days)
	for d := 1; d <= days; d++ {
		out = append(out, f.store.AddReport(sampleReport(st.ID, day(d), status)))
	}
	return out
}

func (f *fixture) completeMonth() {
	f.fillDays(f.a, 30, models.ReportApproved)
	f.fillDays(f.b, 30, models.ReportApproved)
}

func (f *fixture) admin() auth.Actor {
	return auth.Actor{UserID: 1, Name: "Administrador", Role: models.RoleAdmin}
}

func (f *fixture) manager() auth.Actor {
	zoneID := f.zone.ID
	return auth.Actor{UserID: 2, Name: "Gerente Norte", Role: models.RoleZoneManager, ZoneID: &zoneID}
}

func (f *fixture) state(t *testing.T) *State {
	t.Helper()
	st, err := f.svc.GetState(context.Background(), f.admin(), f.zone.ID, testYear, testMonth)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	return st
}

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string) (func(), error) {
	return nil, ErrClosingInProgress
}
