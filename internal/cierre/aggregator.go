package cierre

import (
	"context"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
)

// Summarize calcula el resumen mensual de una estación a partir de sus
// reportes aprobados. No consulta la base.
func Summarize(zoneID, periodID, stationID uint, reports []models.DailyReport) models.MonthlySummary {
	row := models.MonthlySummary{
		ZoneID:       zoneID,
		PeriodID:     periodID,
		StationID:    stationID,
		DaysReported: len(reports),
		Premium:      summarizeProduct(reports, models.ProductPremium),
		Magna:        summarizeProduct(reports, models.ProductMagna),
		Diesel:       summarizeProduct(reports, models.ProductDiesel),
	}

	oils := decimal.Zero
	for i := range reports {
		oils = oils.Add(reports[i].OilsAmount)
	}
	row.OilsTotal = oils.Round(money.DetailPlaces)

	total := row.OilsTotal
	for _, p := range models.Products {
		total = total.Add(row.Product(p).AmountTotal)
	}
	row.GrandTotal = total.Round(money.DetailPlaces)
	return row
}

func summarizeProduct(reports []models.DailyReport, p models.Product) models.ProductSummary {
	var (
		volume, amount                        decimal.Decimal
		shrinkVolume, shrinkAmount, shrinkPct decimal.Decimal
		effVolume, effAmount, effPct          decimal.Decimal
		daysWithData                          int64
	)
	for i := range reports {
		line := reports[i].Line(p)
		volume = volume.Add(line.Volume)
		amount = amount.Add(line.Amount)
		shrinkVolume = shrinkVolume.Add(line.ShrinkageVolume)
		shrinkAmount = shrinkAmount.Add(line.ShrinkageAmount)
		effVolume = effVolume.Add(line.EfficiencyVolume)
		effAmount = effAmount.Add(line.EfficiencyAmount)
		if line.HasData() {
			shrinkPct = shrinkPct.Add(line.ShrinkagePct)
			effPct = effPct.Add(line.EfficiencyPct)
			daysWithData++
		}
	}

	places := money.DetailPlaces
	days := decimal.NewFromInt(daysWithData)
	return models.ProductSummary{
		VolumeTotal:           volume.Round(places),
		AmountTotal:           amount.Round(places),
		AvgPrice:              money.Ratio(amount, volume, places),
		ShrinkageVolumeTotal:  shrinkVolume.Round(places),
		ShrinkageAmountTotal:  shrinkAmount.Round(places),
		AvgShrinkagePct:       money.Ratio(shrinkPct, days, places),
		EfficiencyVolumeTotal: effVolume.Round(places),
		EfficiencyAmountTotal: effAmount.Round(places),
		AvgEfficiencyPct:      money.Ratio(effPct, days, places),
	}
}

// groupByStation reparte los reportes por estación conservando el orden.
func groupByStation(reports []models.DailyReport) map[uint][]models.DailyReport {
	out := make(map[uint][]models.DailyReport)
	for _, r := range reports {
		out[r.StationID] = append(out[r.StationID], r)
	}
	return out
}

// Aggregate calcula (sin guardar) el resumen de una estación activa de la zona.
func Aggregate(ctx context.Context, r storage.Reader, zoneID, periodID, stationID uint) (models.MonthlySummary, error) {
	period, err := r.FindPeriodByID(ctx, periodID)
	if err != nil {
		return models.MonthlySummary{}, persistence("buscar período", err)
	}
	if period == nil {
		return models.MonthlySummary{}, notFound("período")
	}

	stations, err := r.ActiveStations(ctx, zoneID)
	if err != nil {
		return models.MonthlySummary{}, persistence("listar estaciones", err)
	}
	found := false
	for _, st := range stations {
		if st.ID == stationID {
			found = true
			break
		}
	}
	if !found {
		return models.MonthlySummary{}, notFound("estación")
	}

	reports, err := r.ApprovedReports(ctx, []uint{stationID}, period.StartDate, period.EndDate)
	if err != nil {
		return models.MonthlySummary{}, persistence("leer reportes aprobados", err)
	}
	return Summarize(zoneID, periodID, stationID, reports), nil
}
