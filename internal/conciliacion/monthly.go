package conciliacion

import (
	"context"
	"fmt"
	"time"

	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/metrics"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ProductShrinkage struct {
	Volume money.Fixed `json:"merma_volumen"`
	Amount money.Fixed `json:"merma_importe"`
	Price  money.Fixed `json:"precio"` // merma_importe / merma_volumen
}

// StationConciliation compara dos cifras distintas contra la merma: la
// eficiencia reportada (Difference) y el efectivo entregado (CashDifference).
type StationConciliation struct {
	StationID            uint             `json:"estacion_id"`
	Name                 string           `json:"nombre"`
	Code                 string           `json:"codigo"`
	Premium              ProductShrinkage `json:"premium"`
	Magna                ProductShrinkage `json:"magna"`
	Diesel               ProductShrinkage `json:"diesel"`
	TotalShrinkage       money.Fixed      `json:"total_merma"`
	TotalDeliverySurplus money.Fixed      `json:"total_entregas_eficiencia"`
	Difference           money.Fixed      `json:"diferencia"`
	CashDeliveries       money.Fixed      `json:"entregas_efectivo"`
	CashDifference       money.Fixed      `json:"diferencia_efectivo"`
}

type ZoneConciliation struct {
	ZoneID               uint                  `json:"zona_id"`
	Name                 string                `json:"nombre"`
	Code                 string                `json:"codigo"`
	IsClosed             bool                  `json:"cerrado"`
	Source               string                `json:"origen_merma"`
	TotalShrinkage       money.Fixed           `json:"total_merma"`
	TotalDeliverySurplus money.Fixed           `json:"total_entregas_eficiencia"`
	Difference           money.Fixed           `json:"diferencia"`
	CashDeliveries       money.Fixed           `json:"entregas_efectivo"`
	Stations             []StationConciliation `json:"estaciones"`
}

type MonthlyConciliation struct {
	Year        int                `json:"anio"`
	Month       int                `json:"mes"`
	GeneratedAt string             `json:"generado"`
	Zones       []ZoneConciliation `json:"zonas"`
}

func newProductShrinkage(f productFigures) ProductShrinkage {
	return ProductShrinkage{
		Volume: money.Four(f.ShrinkageVolume),
		Amount: money.Four(f.ShrinkageAmount),
		Price:  money.Four(money.Ratio(f.ShrinkageAmount, f.ShrinkageVolume, money.DetailPlaces)),
	}
}

// MonthlyConciliation arma el reporte para una zona o, con zoneScope nil, para todas.
func (c *Calculator) MonthlyConciliation(ctx context.Context, zoneScope *uint, year, month int) (*MonthlyConciliation, error) {
	if err := cierre.CheckPeriod(year, month); err != nil {
		return nil, err
	}

	start := time.Now()
	rep, err := c.monthlyConciliation(ctx, zoneScope, year, month)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveReconciliation(result, time.Since(start))
	return rep, err
}

func (c *Calculator) monthlyConciliation(ctx context.Context, zoneScope *uint, year, month int) (*MonthlyConciliation, error) {
	fields := logrus.Fields{"anio": year, "mes": month}

	var zones []models.Zone
	if zoneScope != nil {
		zone, err := c.src.FindZone(ctx, *zoneScope)
		if err != nil {
			return nil, c.fail("buscar zona", fields, err)
		}
		if zone == nil {
			return nil, fmt.Errorf("%w: zona", cierre.ErrNotFound)
		}
		zones = []models.Zone{*zone}
	} else {
		var err error
		if zones, err = c.src.ListZones(ctx); err != nil {
			return nil, c.fail("listar zonas", fields, err)
		}
	}

	rep := &MonthlyConciliation{
		Year:        year,
		Month:       month,
		GeneratedAt: c.now().UTC().Format(time.RFC3339),
		Zones:       make([]ZoneConciliation, 0, len(zones)),
	}
	for _, zone := range zones {
		zc, err := c.zoneConciliation(ctx, zone, year, month)
		if err != nil {
			return nil, err
		}
		rep.Zones = append(rep.Zones, *zc)
	}
	return rep, nil
}

func (c *Calculator) zoneConciliation(ctx context.Context, zone models.Zone, year, month int) (*ZoneConciliation, error) {
	zf, err := c.loadZone(ctx, zone, year, month)
	if err != nil {
		return nil, err
	}

	deliveries, err := c.src.Deliveries(ctx, zone.ID, zf.Period.StartDate, zf.Period.EndDate)
	if err != nil {
		return nil, c.fail("leer entregas", logrus.Fields{"zona_id": zone.ID, "anio": year, "mes": month}, err)
	}
	cash := map[uint]decimal.Decimal{}
	for _, d := range deliveries {
		if d.Type == models.DeliveryStationToZone && d.StationID != nil {
			cash[*d.StationID] = cash[*d.StationID].Add(d.Amount)
		}
	}

	zc := &ZoneConciliation{
		ZoneID:   zone.ID,
		Name:     zone.Name,
		Code:     zone.Code,
		IsClosed: zf.IsClosed,
		Source:   zf.Source,
		Stations: make([]StationConciliation, 0, len(zf.Stations)),
	}
	var totalShrinkage, totalSurplus, totalCash decimal.Decimal
	for _, f := range zf.Stations {
		shrinkage := f.shrinkage()
		surplus := f.efficiency()
		delivered := cash[f.Station.ID]

		totalShrinkage = totalShrinkage.Add(shrinkage)
		totalSurplus = totalSurplus.Add(surplus)
		totalCash = totalCash.Add(delivered)

		zc.Stations = append(zc.Stations, StationConciliation{
			StationID:            f.Station.ID,
			Name:                 f.Station.Name,
			Code:                 f.Station.Code,
			Premium:              newProductShrinkage(f.Products[models.ProductPremium]),
			Magna:                newProductShrinkage(f.Products[models.ProductMagna]),
			Diesel:               newProductShrinkage(f.Products[models.ProductDiesel]),
			TotalShrinkage:       money.Four(shrinkage),
			TotalDeliverySurplus: money.Four(surplus),
			Difference:           money.Four(surplus.Sub(shrinkage)),
			CashDeliveries:       money.Four(delivered),
			CashDifference:       money.Four(delivered.Sub(shrinkage)),
		})
	}
	zc.TotalShrinkage = money.Four(totalShrinkage)
	zc.TotalDeliverySurplus = money.Four(totalSurplus)
	zc.Difference = money.Four(totalSurplus.Sub(totalShrinkage))
	zc.CashDeliveries = money.Four(totalCash)
	return zc, nil
}
