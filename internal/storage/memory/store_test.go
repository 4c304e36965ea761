package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollsBackOnError(t *testing.T) {
	s := New()
	zone := s.AddZone("Norte")
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx storage.Tx) error {
		p, err := tx.EnsurePeriod(ctx, 2024, 3)
		require.NoError(t, err)
		c, err := tx.LockClosure(ctx, zone.ID, p.ID)
		require.NoError(t, err)
		c.IsClosed = true
		require.NoError(t, tx.SaveClosure(ctx, c))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.FindPeriod(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTransactionCommits(t *testing.T) {
	s := New()
	zone := s.AddZone("Norte")
	ctx := context.Background()

	require.NoError(t, s.Transaction(ctx, func(tx storage.Tx) error {
		p, err := tx.EnsurePeriod(ctx, 2024, 3)
		if err != nil {
			return err
		}
		return tx.ReplaceSummaries(ctx, zone.ID, p.ID, []models.MonthlySummary{{ZoneID: zone.ID, PeriodID: p.ID, StationID: 7}})
	}))

	p, err := s.FindPeriod(ctx, 2024, 3)
	require.NoError(t, err)
	require.NotNil(t, p)
	rows, err := s.ListSummaries(ctx, zone.ID, p.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFailOn(t *testing.T) {
	s := New()
	boom := errors.New("db caída")
	s.FailOn("ActiveStations", boom)

	_, err := s.ActiveStations(context.Background(), 1)
	assert.ErrorIs(t, err, boom)

	s.FailOn("ActiveStations", nil)
	_, err = s.ActiveStations(context.Background(), 1)
	assert.NoError(t, err)
}

func TestReportDayCountsDistinctDays(t *testing.T) {
	s := New()
	zone := s.AddZone("Norte")
	st := s.AddStation(zone.ID, "Centro", "E-01", true)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	s.AddReport(models.DailyReport{StationID: st.ID, Date: day, Status: models.ReportApproved})
	s.AddReport(models.DailyReport{StationID: st.ID, Date: day.AddDate(0, 0, 1)})
	s.AddReport(models.DailyReport{StationID: st.ID, Date: day.AddDate(0, 1, 0), Status: models.ReportApproved})

	p := models.NewPeriod(2024, 3)
	counts, err := s.ReportDayCounts(context.Background(), []uint{st.ID}, p.StartDate, p.EndDate)
	require.NoError(t, err)
	assert.Equal(t, storage.DayCount{Reported: 2, Approved: 1}, counts[st.ID])
}

func TestSetInitialBalance(t *testing.T) {
	s := New()
	s.SetInitialBalance(1, 2024, 3, decimal.NewFromInt(500))
	s.SetInitialBalance(1, 2024, 3, decimal.NewFromInt(750))

	p, err := s.FindPeriod(context.Background(), 2024, 3)
	require.NoError(t, err)
	got, err := s.InitialBalance(context.Background(), 1, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(750)))
}
