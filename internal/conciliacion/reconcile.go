// Package conciliacion calcula el control financiero de una zona (resguardo,
// entregas, gastos y merma por estación) y el reporte de conciliación mensual
// que consultan los socios externos.
package conciliacion

import (
	"context"
	"fmt"
	"time"

	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/metrics"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type StationStatus string

const (
	StatusLiquidated StationStatus = "Liquidado"
	StatusPending    StationStatus = "Pendiente"
)

// Origen de las cifras de merma.
const (
	SourceSummaries = "resumen_mensual"
	SourceReports   = "reportes_aprobados"
)

type StationBalance struct {
	StationID    uint          `json:"estacion_id"`
	Name         string        `json:"nombre"`
	Code         string        `json:"codigo"`
	Shrinkage    money.Fixed   `json:"merma"`
	Deliveries   money.Fixed   `json:"entregas"`
	Expenses     money.Fixed   `json:"gastos"`
	Balance      money.Fixed   `json:"saldo"` // entregas - merma - gastos
	Status       StationStatus `json:"estado"`
	DaysApproved int           `json:"dias_aprobados"`
	DaysTotal    int           `json:"dias_totales"`
}

type ZoneSummary struct {
	InitialBalance        money.Fixed `json:"saldo_inicial"`
	ReceivedDeliveries    money.Fixed `json:"entregas_recibidas"`
	DeliveriesToDirection money.Fixed `json:"entregas_direccion"`
	ZoneExpenses          money.Fixed `json:"gastos_zona"`
	CurrentSafeguard      money.Fixed `json:"resguardo_actual"`
	TotalStations         int         `json:"total_estaciones"`
	StationsLiquidated    int         `json:"estaciones_liquidadas"`
	StationsPending       int         `json:"estaciones_pendientes"`
	LiquidationPercentage money.Fixed `json:"porcentaje_liquidacion"`
}

type FinancialControl struct {
	ZoneID   uint             `json:"zona_id"`
	ZoneName string           `json:"zona_nombre"`
	Year     int              `json:"anio"`
	Month    int              `json:"mes"`
	IsClosed bool             `json:"cerrado"`
	Source   string           `json:"origen_merma"`
	Zone     ZoneSummary      `json:"resumen_zona"`
	Stations []StationBalance `json:"estaciones"`
}

type Calculator struct {
	src Source
	log *logrus.Logger
	now func() time.Time
}

func NewCalculator(src Source, logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Calculator{src: src, log: logger, now: time.Now}
}

// productFigures: merma y eficiencia acumuladas de un combustible.
type productFigures struct {
	ShrinkageVolume  decimal.Decimal
	ShrinkageAmount  decimal.Decimal
	EfficiencyAmount decimal.Decimal
}

type stationFigures struct {
	Station  models.Station
	Products map[models.Product]productFigures
}

func (f stationFigures) shrinkage() decimal.Decimal {
	total := decimal.Zero
	for _, p := range models.Products {
		total = total.Add(f.Products[p].ShrinkageAmount)
	}
	return total
}

func (f stationFigures) efficiency() decimal.Decimal {
	total := decimal.Zero
	for _, p := range models.Products {
		total = total.Add(f.Products[p].EfficiencyAmount)
	}
	return total
}

// zoneFigures reúne lo que comparten el control financiero y la conciliación.
type zoneFigures struct {
	Period   models.Period
	Stored   bool // el período existe en la base
	IsClosed bool
	Source   string
	Stations []stationFigures
}

func (c *Calculator) fail(op string, fields logrus.Fields, err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", cierre.ErrPersistence, op, err)
	c.log.WithFields(fields).WithField("op", op).Error(wrapped.Error())
	return wrapped
}

// loadZone toma la merma de los resúmenes si el período está cerrado y de los
// reportes aprobados si no.
func (c *Calculator) loadZone(ctx context.Context, zone models.Zone, year, month int) (*zoneFigures, error) {
	fields := logrus.Fields{"zona_id": zone.ID, "anio": year, "mes": month}
	out := &zoneFigures{Period: models.NewPeriod(year, month), Source: SourceReports}

	period, err := c.src.FindPeriod(ctx, year, month)
	if err != nil {
		return nil, c.fail("buscar período", fields, err)
	}
	if period != nil {
		out.Period = *period
		out.Stored = true
		closure, err := c.src.FindClosure(ctx, zone.ID, period.ID)
		if err != nil {
			return nil, c.fail("buscar cierre", fields, err)
		}
		out.IsClosed = closure != nil && closure.IsClosed
	}

	if out.IsClosed {
		rows, err := c.src.ListSummaries(ctx, zone.ID, out.Period.ID)
		if err != nil {
			return nil, c.fail("listar resúmenes", fields, err)
		}
		out.Source = SourceSummaries
		for i := range rows {
			f := stationFigures{Station: rows[i].Station, Products: map[models.Product]productFigures{}}
			f.Station.ID = rows[i].StationID
			for _, p := range models.Products {
				ps := rows[i].Product(p)
				f.Products[p] = productFigures{
					ShrinkageVolume:  ps.ShrinkageVolumeTotal,
					ShrinkageAmount:  ps.ShrinkageAmountTotal,
					EfficiencyAmount: ps.EfficiencyAmountTotal,
				}
			}
			out.Stations = append(out.Stations, f)
		}
		return out, nil
	}

	stations, err := c.src.ActiveStations(ctx, zone.ID)
	if err != nil {
		return nil, c.fail("listar estaciones", fields, err)
	}
	if len(stations) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	reports, err := c.src.ApprovedReports(ctx, ids, out.Period.StartDate, out.Period.EndDate)
	if err != nil {
		return nil, c.fail("leer reportes aprobados", fields, err)
	}

	index := make(map[uint]int, len(stations))
	for i, st := range stations {
		index[st.ID] = i
		out.Stations = append(out.Stations, stationFigures{Station: st, Products: map[models.Product]productFigures{}})
	}
	for i := range reports {
		pos, ok := index[reports[i].StationID]
		if !ok {
			continue
		}
		f := out.Stations[pos]
		for _, p := range models.Products {
			line := reports[i].Line(p)
			acc := f.Products[p]
			acc.ShrinkageVolume = acc.ShrinkageVolume.Add(line.ShrinkageVolume)
			acc.ShrinkageAmount = acc.ShrinkageAmount.Add(line.ShrinkageAmount)
			acc.EfficiencyAmount = acc.EfficiencyAmount.Add(line.EfficiencyAmount)
			f.Products[p] = acc
		}
	}
	return out, nil
}

// Reconcile arma el control financiero de la zona para el mes.
func (c *Calculator) Reconcile(ctx context.Context, actor auth.Actor, zoneID uint, year, month int) (*FinancialControl, error) {
	if err := cierre.CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.CanAccessZone(zoneID) {
		return nil, cierre.ErrAuthorization
	}

	start := time.Now()
	fc, err := c.reconcile(ctx, zoneID, year, month)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveReconciliation(result, time.Since(start))
	return fc, err
}

func (c *Calculator) reconcile(ctx context.Context, zoneID uint, year, month int) (*FinancialControl, error) {
	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month}

	zone, err := c.src.FindZone(ctx, zoneID)
	if err != nil {
		return nil, c.fail("buscar zona", fields, err)
	}
	if zone == nil {
		return nil, fmt.Errorf("%w: zona", cierre.ErrNotFound)
	}

	zf, err := c.loadZone(ctx, *zone, year, month)
	if err != nil {
		return nil, err
	}
	period := zf.Period

	initial := decimal.Zero
	if zf.Stored {
		if initial, err = c.src.InitialBalance(ctx, zoneID, period.ID); err != nil {
			return nil, c.fail("leer saldo inicial", fields, err)
		}
	}

	deliveries, err := c.src.Deliveries(ctx, zoneID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, c.fail("leer entregas", fields, err)
	}
	expenses, err := c.src.Expenses(ctx, zoneID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, c.fail("leer gastos", fields, err)
	}

	received, toDirection := decimal.Zero, decimal.Zero
	stationDeliveries := map[uint]decimal.Decimal{}
	for _, d := range deliveries {
		switch d.Type {
		case models.DeliveryStationToZone:
			received = received.Add(d.Amount)
			if d.StationID != nil {
				stationDeliveries[*d.StationID] = stationDeliveries[*d.StationID].Add(d.Amount)
			}
		case models.DeliveryZoneToDirection:
			toDirection = toDirection.Add(d.Amount)
		}
	}

	zoneExpenses := decimal.Zero
	stationExpenses := map[uint]decimal.Decimal{}
	for _, e := range expenses {
		zoneExpenses = zoneExpenses.Add(e.Amount)
		if e.StationID != nil {
			stationExpenses[*e.StationID] = stationExpenses[*e.StationID].Add(e.Amount)
		}
	}

	ids := make([]uint, 0, len(zf.Stations))
	for _, f := range zf.Stations {
		ids = append(ids, f.Station.ID)
	}
	counts := map[uint]storage.DayCount{}
	if len(ids) > 0 {
		if counts, err = c.src.ReportDayCounts(ctx, ids, period.StartDate, period.EndDate); err != nil {
			return nil, c.fail("contar días", fields, err)
		}
	}

	fc := &FinancialControl{
		ZoneID:   zoneID,
		ZoneName: zone.Name,
		Year:     year,
		Month:    month,
		IsClosed: zf.IsClosed,
		Source:   zf.Source,
		Stations: make([]StationBalance, 0, len(zf.Stations)),
	}

	liquidated := 0
	for _, f := range zf.Stations {
		shrinkage := f.shrinkage()
		delivered := stationDeliveries[f.Station.ID]
		spent := stationExpenses[f.Station.ID]
		balance := delivered.Sub(shrinkage).Sub(spent)

		status := StatusPending
		if balance.LessThanOrEqual(decimal.Zero) {
			status = StatusLiquidated
			liquidated++
		}
		fc.Stations = append(fc.Stations, StationBalance{
			StationID:    f.Station.ID,
			Name:         f.Station.Name,
			Code:         f.Station.Code,
			Shrinkage:    money.Four(shrinkage),
			Deliveries:   money.Four(delivered),
			Expenses:     money.Four(spent),
			Balance:      money.Four(balance),
			Status:       status,
			DaysApproved: counts[f.Station.ID].Approved,
			DaysTotal:    period.DaysInMonth(),
		})
	}

	total := len(zf.Stations)
	safeguard := initial.Add(received).Sub(toDirection).Sub(zoneExpenses)
	fc.Zone = ZoneSummary{
		InitialBalance:        money.Four(initial),
		ReceivedDeliveries:    money.Four(received),
		DeliveriesToDirection: money.Four(toDirection),
		ZoneExpenses:          money.Four(zoneExpenses),
		CurrentSafeguard:      money.Four(safeguard),
		TotalStations:         total,
		StationsLiquidated:    liquidated,
		StationsPending:       total - liquidated,
		LiquidationPercentage: money.Four(money.Ratio(decimal.NewFromInt(int64(liquidated*100)), decimal.NewFromInt(int64(total)), money.DetailPlaces)),
	}
	return fc, nil
}
