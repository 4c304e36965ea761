package conciliacion

import (
	"testing"

	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/models"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyConciliationClosedZone(t *testing.T) {
	calc, src, _ := newCalc(t)

	summary := models.MonthlySummary{
		ZoneID:    zoneID,
		PeriodID:  3,
		StationID: 10,
		Station:   stations()[0],
		Premium: models.ProductSummary{
			ShrinkageVolumeTotal:  dec("100"),
			ShrinkageAmountTotal:  dec("1950"),
			EfficiencyAmountTotal: dec("2000"),
		},
	}

	src.EXPECT().FindZone(gomock.Any(), zoneID).Return(&models.Zone{ID: zoneID, Name: "Zona Sur", Code: "ZS"}, nil)
	src.EXPECT().FindPeriod(gomock.Any(), year, month).Return(storedPeriod(), nil)
	src.EXPECT().FindClosure(gomock.Any(), zoneID, uint(3)).Return(&models.ClosurePeriod{IsClosed: true}, nil)
	src.EXPECT().ListSummaries(gomock.Any(), zoneID, uint(3)).Return([]models.MonthlySummary{summary}, nil)
	src.EXPECT().Deliveries(gomock.Any(), zoneID, gomock.Any(), gomock.Any()).Return([]models.Delivery{
		{StationID: uptr(10), Type: models.DeliveryStationToZone, Amount: dec("1800")},
		{Type: models.DeliveryZoneToDirection, Amount: dec("900")},
	}, nil)

	z := zoneID
	rep, err := calc.MonthlyConciliation(ctx, &z, year, month)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03T12:00:00Z", rep.GeneratedAt)
	require.Len(t, rep.Zones, 1)

	zc := rep.Zones[0]
	assert.True(t, zc.IsClosed)
	assert.Equal(t, SourceSummaries, zc.Source)
	require.Len(t, zc.Stations, 1)

	st := zc.Stations[0]
	assert.Equal(t, "100.0000", st.Premium.Volume.String())
	assert.Equal(t, "1950.0000", st.Premium.Amount.String())
	assert.Equal(t, "19.5000", st.Premium.Price.String())
	assert.Equal(t, "0.0000", st.Magna.Price.String())
	assert.Equal(t, "1950.0000", st.TotalShrinkage.String())
	assert.Equal(t, "2000.0000", st.TotalDeliverySurplus.String())
	assert.Equal(t, "50.0000", st.Difference.String())
	assert.Equal(t, "1800.0000", st.CashDeliveries.String())
	assert.Equal(t, "-150.0000", st.CashDifference.String())

	assert.Equal(t, "1950.0000", zc.TotalShrinkage.String())
	assert.Equal(t, "50.0000", zc.Difference.String())
	assert.Equal(t, "1800.0000", zc.CashDeliveries.String())
}

func TestMonthlyConciliationAllZones(t *testing.T) {
	calc, src, _ := newCalc(t)

	src.EXPECT().ListZones(gomock.Any()).Return([]models.Zone{{ID: 1, Name: "Norte"}, {ID: 2, Name: "Sur"}}, nil)
	src.EXPECT().FindPeriod(gomock.Any(), year, month).Return(nil, nil).Times(2)
	src.EXPECT().ActiveStations(gomock.Any(), uint(1)).Return(nil, nil)
	src.EXPECT().ActiveStations(gomock.Any(), uint(2)).Return([]models.Station{{ID: 20, ZoneID: 2, Code: "E-0020"}}, nil)
	src.EXPECT().ApprovedReports(gomock.Any(), []uint{20}, gomock.Any(), gomock.Any()).Return([]models.DailyReport{
		{StationID: 20, Diesel: models.ProductLine{ShrinkageVolume: dec("4"), ShrinkageAmount: dec("90"), EfficiencyAmount: dec("10")}},
		{StationID: 20, Diesel: models.ProductLine{ShrinkageVolume: dec("2"), ShrinkageAmount: dec("45")}},
	}, nil)
	src.EXPECT().Deliveries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	rep, err := calc.MonthlyConciliation(ctx, nil, year, month)
	require.NoError(t, err)
	require.Len(t, rep.Zones, 2)
	assert.Empty(t, rep.Zones[0].Stations)

	sur := rep.Zones[1]
	assert.Equal(t, SourceReports, sur.Source)
	require.Len(t, sur.Stations, 1)
	assert.Equal(t, "6.0000", sur.Stations[0].Diesel.Volume.String())
	assert.Equal(t, "22.5000", sur.Stations[0].Diesel.Price.String())
	assert.Equal(t, "-125.0000", sur.Difference.String())
	assert.Equal(t, "-135.0000", sur.Stations[0].CashDifference.String())
}

func TestMonthlyConciliationErrors(t *testing.T) {
	t.Run("período inválido", func(t *testing.T) {
		calc, _, _ := newCalc(t)
		_, err := calc.MonthlyConciliation(ctx, nil, year, 0)
		assert.ErrorIs(t, err, cierre.ErrInvalidPeriod)
	})

	t.Run("zona inexistente", func(t *testing.T) {
		calc, src, _ := newCalc(t)
		src.EXPECT().FindZone(gomock.Any(), uint(42)).Return(nil, nil)
		z := uint(42)
		_, err := calc.MonthlyConciliation(ctx, &z, year, month)
		assert.ErrorIs(t, err, cierre.ErrNotFound)
	})
}
