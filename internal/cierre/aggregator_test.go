package cierre

import (
	"context"
	"testing"

	"reporteventas-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(volume, price, shrinkPct, effPct string) models.ProductLine {
	l := models.ProductLine{
		Volume:        dec(volume),
		Price:         dec(price),
		ShrinkagePct:  dec(shrinkPct),
		EfficiencyPct: dec(effPct),
	}
	if !l.Volume.IsZero() {
		l.ShrinkageVolume = dec("1")
	}
	l.ComputeAmount()
	return l
}

func TestSummarize_WeightedAveragePrice(t *testing.T) {
	reports := []models.DailyReport{
		{StationID: 1, Date: day(1), Premium: line("100", "20", "0.5", "0.1")},
		{StationID: 1, Date: day(2), Premium: line("300", "22", "0.3", "0.3")},
		// sin premium ese día: no cuenta para el promedio de porcentajes
		{StationID: 1, Date: day(3), Magna: line("50", "21", "0.9", "0")},
	}

	s := Summarize(7, 3, 1, reports)

	assert.Equal(t, uint(7), s.ZoneID)
	assert.Equal(t, uint(3), s.PeriodID)
	assert.Equal(t, 3, s.DaysReported)
	assert.True(t, dec("400").Equal(s.Premium.VolumeTotal))
	assert.True(t, dec("8600").Equal(s.Premium.AmountTotal))
	// 8600 / 400, no (20 + 22) / 2
	assert.True(t, dec("21.5").Equal(s.Premium.AvgPrice), s.Premium.AvgPrice.String())
	assert.True(t, dec("0.4").Equal(s.Premium.AvgShrinkagePct), s.Premium.AvgShrinkagePct.String())
	assert.True(t, dec("0.2").Equal(s.Premium.AvgEfficiencyPct))
	assert.True(t, dec("0.9").Equal(s.Magna.AvgShrinkagePct))
}

func TestSummarize_ZeroVolume(t *testing.T) {
	s := Summarize(1, 1, 1, []models.DailyReport{{StationID: 1, Date: day(1)}})

	for _, p := range models.Products {
		ps := s.Product(p)
		assert.True(t, ps.AvgPrice.IsZero(), p)
		assert.True(t, ps.AvgShrinkagePct.IsZero(), p)
		assert.True(t, ps.AvgEfficiencyPct.IsZero(), p)
	}
	assert.True(t, s.GrandTotal.IsZero())

	empty := Summarize(1, 1, 1, nil)
	assert.Equal(t, 0, empty.DaysReported)
	assert.True(t, empty.Diesel.AvgPrice.IsZero())
}

func TestSummarize_TotalsAndRounding(t *testing.T) {
	r1 := sampleReport(1, day(1), models.ReportApproved)
	r2 := sampleReport(1, day(2), models.ReportApproved)
	r2.Diesel = models.ProductLine{Volume: dec("333.33333"), Price: dec("1"), Amount: dec("333.33333")}
	r2.OilsAmount = dec("49.99999")

	s := Summarize(1, 1, 1, []models.DailyReport{r1, r2})

	assert.True(t, dec("47000").Equal(s.Premium.AmountTotal))
	assert.True(t, dec("35040").Equal(s.Magna.AmountTotal))
	assert.True(t, dec("94").Equal(s.Premium.ShrinkageAmountTotal))
	assert.True(t, dec("70.5").Equal(s.Premium.EfficiencyAmountTotal))
	assert.True(t, dec("333.3333").Equal(s.Diesel.VolumeTotal), s.Diesel.VolumeTotal.String())
	assert.True(t, dec("200").Equal(s.OilsTotal), s.OilsTotal.String())
	// 47000 + 35040 + 333.3333 + 200
	assert.True(t, dec("82573.3333").Equal(s.GrandTotal), s.GrandTotal.String())
	assert.True(t, dec("137.8").Equal(s.ShrinkageAmountTotal()), s.ShrinkageAmountTotal().String())
}

func TestAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillDays(f.a, 5, models.ReportApproved)
	f.store.AddReport(sampleReport(f.a.ID, day(6), models.ReportPending))

	_, err := Aggregate(ctx, f.store, f.zone.ID, 1, f.a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	f.store.SetInitialBalance(f.zone.ID, testYear, testMonth, dec("0"))
	p, err := f.store.FindPeriod(ctx, testYear, testMonth)
	require.NoError(t, err)
	require.NotNil(t, p)

	s, err := Aggregate(ctx, f.store, f.zone.ID, p.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, s.DaysReported)
	assert.True(t, dec("5000").Equal(s.Premium.VolumeTotal))

	other := f.store.AddZone("Zona Sur")
	_, err = Aggregate(ctx, f.store, other.ID, p.ID, f.a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
