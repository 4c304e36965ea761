package conciliacion

import (
	"testing"
	"time"

	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage/memory"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Recorre el flujo completo sobre el almacén en memoria: control financiero
// con el mes abierto, cierre y el mismo control leyendo los resúmenes.
func TestReconcileBeforeAndAfterClose(t *testing.T) {
	store := memory.New()
	zone := store.AddZone("Zona Norte")
	st := store.AddStation(zone.ID, "Estación Centro", "E-0001", true)
	store.AddStation(zone.ID, "Estación Cerrada", "E-0002", false)

	for d := 1; d <= 30; d++ {
		store.AddReport(models.DailyReport{
			StationID: st.ID,
			Date:      time.Date(year, month, d, 0, 0, 0, 0, time.UTC),
			Status:    models.ReportApproved,
			Premium: models.ProductLine{
				Volume:           dec("1000"),
				Price:            dec("23.50"),
				Amount:           dec("23500"),
				ShrinkageVolume:  dec("2"),
				ShrinkageAmount:  dec("47"),
				EfficiencyVolume: dec("1.5"),
				EfficiencyAmount: dec("35.25"),
			},
			Magna: models.ProductLine{
				Volume:          dec("800"),
				Price:           dec("21.90"),
				Amount:          dec("17520"),
				ShrinkageVolume: dec("1"),
				ShrinkageAmount: dec("21.90"),
			},
		})
	}
	stationID := st.ID
	store.AddDelivery(models.Delivery{
		ZoneID: zone.ID, StationID: &stationID, Type: models.DeliveryStationToZone,
		Date: time.Date(year, month, 30, 0, 0, 0, 0, time.UTC), Amount: dec("2067"),
	})
	store.AddDelivery(models.Delivery{
		ZoneID: zone.ID, Type: models.DeliveryZoneToDirection,
		Date: time.Date(year, month, 15, 0, 0, 0, 0, time.UTC), Amount: dec("500"),
	})
	store.SetInitialBalance(zone.ID, year, month, dec("1000"))

	logger, _ := test.NewNullLogger()
	calc := NewCalculator(store, logger)
	svc := cierre.NewService(store, nil, logger)

	open, err := calc.Reconcile(ctx, admin(), zone.ID, year, month)
	require.NoError(t, err)
	assert.False(t, open.IsClosed)
	assert.Equal(t, SourceReports, open.Source)
	require.Len(t, open.Stations, 1)
	assert.Equal(t, "2067.0000", open.Stations[0].Shrinkage.String())
	assert.Equal(t, "0.0000", open.Stations[0].Balance.String())
	assert.Equal(t, StatusLiquidated, open.Stations[0].Status)
	assert.Equal(t, 30, open.Stations[0].DaysApproved)
	assert.Equal(t, "2567.0000", open.Zone.CurrentSafeguard.String())
	assert.Equal(t, "100.0000", open.Zone.LiquidationPercentage.String())

	_, err = svc.Close(ctx, admin(), zone.ID, year, month, "")
	require.NoError(t, err)

	closed, err := calc.Reconcile(ctx, admin(), zone.ID, year, month)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed)
	assert.Equal(t, SourceSummaries, closed.Source)
	require.Len(t, closed.Stations, 1)
	assert.Equal(t, "Estación Centro", closed.Stations[0].Name)
	assert.Equal(t, open.Stations[0].Shrinkage.String(), closed.Stations[0].Shrinkage.String())
	assert.Equal(t, open.Zone.CurrentSafeguard.String(), closed.Zone.CurrentSafeguard.String())
	assert.Equal(t, StatusLiquidated, closed.Stations[0].Status)

	report, err := calc.MonthlyConciliation(ctx, &zone.ID, year, month)
	require.NoError(t, err)
	require.Len(t, report.Zones, 1)
	z := report.Zones[0]
	assert.True(t, z.IsClosed)
	require.Len(t, z.Stations, 1)
	assert.Equal(t, "23.5000", z.Stations[0].Premium.Price.String())
	assert.Equal(t, "21.9000", z.Stations[0].Magna.Price.String())
	assert.Equal(t, "0.0000", z.Stations[0].Diesel.Price.String())
	assert.Equal(t, "1057.5000", z.Stations[0].TotalDeliverySurplus.String())
	assert.Equal(t, "-1009.5000", z.Stations[0].Difference.String())
	assert.Equal(t, "0.0000", z.Stations[0].CashDifference.String())
}
