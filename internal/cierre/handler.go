package cierre

import (
	"errors"
	"strings"
	"time"

	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var bodyValidator = validator.New()

type CloseRequest struct {
	ZoneID       uint   `json:"zonaId" validate:"required"`
	Year         int    `json:"anio" validate:"required,min=2000,max=2100"`
	Month        int    `json:"mes" validate:"required,min=1,max=12"`
	Observations string `json:"observaciones" validate:"max=500"`
}

type ReopenRequest struct {
	ZoneID uint `json:"zonaId" validate:"required"`
	Year   int  `json:"anio" validate:"required,min=2000,max=2100"`
	Month  int  `json:"mes" validate:"required,min=1,max=12"`
}

type InitialBalanceRequest struct {
	ZoneID uint            `json:"zonaId" validate:"required"`
	Year   int             `json:"anio" validate:"required,min=2000,max=2100"`
	Month  int             `json:"mes" validate:"required,min=1,max=12"`
	Amount decimal.Decimal `json:"monto"`
}

type PeriodResponse struct {
	ID        uint   `json:"id"`
	Year      int    `json:"anio"`
	Month     int    `json:"mes"`
	StartDate string `json:"fecha_inicio"`
	EndDate   string `json:"fecha_fin"`
}

type ClosureResponse struct {
	ID           uint    `json:"id"`
	ZoneID       uint    `json:"zona_id"`
	PeriodID     uint    `json:"periodo_id"`
	IsClosed     bool    `json:"cerrado"`
	ClosedAt     *string `json:"fecha_cierre"`
	ClosedBy     *uint   `json:"cerrado_por"`
	Observations string  `json:"observaciones"`
	ReopenedAt   *string `json:"fecha_reapertura"`
	ReopenedBy   *uint   `json:"reabierto_por"`
}

type EstadoCierre struct {
	Period   PeriodResponse   `json:"periodo"`
	Closure  *ClosureResponse `json:"cierre"`
	IsClosed bool             `json:"cerrado"`
}

type CierreResponse struct {
	Success           bool             `json:"success"`
	Message           string           `json:"mensaje"`
	Closure           *ClosureResponse `json:"cierre"`
	StationsProcessed int              `json:"estaciones_procesadas"`
	SummariesDeleted  *int64           `json:"resumenes_eliminados,omitempty"`
	Validation        *Validation      `json:"validacion,omitempty"`
}

type ProductoResumen struct {
	VolumeTotal           money.Fixed `json:"volumen_total"`
	AmountTotal           money.Fixed `json:"importe_total"`
	AvgPrice              money.Fixed `json:"precio_promedio"`
	ShrinkageVolumeTotal  money.Fixed `json:"merma_volumen_total"`
	ShrinkageAmountTotal  money.Fixed `json:"merma_importe_total"`
	AvgShrinkagePct       money.Fixed `json:"merma_porcentaje_promedio"`
	EfficiencyVolumeTotal money.Fixed `json:"eficiencia_volumen_total"`
	EfficiencyAmountTotal money.Fixed `json:"eficiencia_importe_total"`
	AvgEfficiencyPct      money.Fixed `json:"eficiencia_porcentaje_promedio"`
}

type ResumenMensual struct {
	StationID    uint            `json:"estacion_id"`
	StationName  string          `json:"estacion_nombre"`
	StationCode  string          `json:"estacion_codigo"`
	Premium      ProductoResumen `json:"premium"`
	Magna        ProductoResumen `json:"magna"`
	Diesel       ProductoResumen `json:"diesel"`
	DaysReported int             `json:"dias_reportados"`
	OilsTotal    money.Fixed     `json:"total_aceites"`
	GrandTotal   money.Fixed     `json:"total_general"`
}

func NewPeriodResponse(p models.Period) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID,
		Year:      p.Year,
		Month:     p.Month,
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
	}
}

func newClosureResponse(c *models.ClosurePeriod) *ClosureResponse {
	if c == nil {
		return nil
	}
	out := &ClosureResponse{
		ID:           c.ID,
		ZoneID:       c.ZoneID,
		PeriodID:     c.PeriodID,
		IsClosed:     c.IsClosed,
		ClosedBy:     c.ClosedBy,
		Observations: c.Observations,
		ReopenedBy:   c.ReopenedBy,
	}
	if c.ClosedAt != nil {
		s := c.ClosedAt.UTC().Format(time.RFC3339)
		out.ClosedAt = &s
	}
	if c.ReopenedAt != nil {
		s := c.ReopenedAt.UTC().Format(time.RFC3339)
		out.ReopenedAt = &s
	}
	return out
}

func newProductoResumen(p models.ProductSummary) ProductoResumen {
	return ProductoResumen{
		VolumeTotal:           money.Two(p.VolumeTotal),
		AmountTotal:           money.Two(p.AmountTotal),
		AvgPrice:              money.Two(p.AvgPrice),
		ShrinkageVolumeTotal:  money.Two(p.ShrinkageVolumeTotal),
		ShrinkageAmountTotal:  money.Two(p.ShrinkageAmountTotal),
		AvgShrinkagePct:       money.Two(p.AvgShrinkagePct),
		EfficiencyVolumeTotal: money.Two(p.EfficiencyVolumeTotal),
		EfficiencyAmountTotal: money.Two(p.EfficiencyAmountTotal),
		AvgEfficiencyPct:      money.Two(p.AvgEfficiencyPct),
	}
}

func NewResumenMensual(s models.MonthlySummary) ResumenMensual {
	return ResumenMensual{
		StationID:    s.StationID,
		StationName:  s.Station.Name,
		StationCode:  s.Station.Code,
		Premium:      newProductoResumen(s.Premium),
		Magna:        newProductoResumen(s.Magna),
		Diesel:       newProductoResumen(s.Diesel),
		DaysReported: s.DaysReported,
		OilsTotal:    money.Two(s.OilsTotal),
		GrandTotal:   money.Two(s.GrandTotal),
	}
}

// periodParams lee :zonaId/:anio/:mes.
func periodParams(c *fiber.Ctx) (uint, int, int, error) {
	zoneID, err := c.ParamsInt("zonaId")
	if err != nil || zoneID <= 0 {
		return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "zonaId inválido")
	}
	year, err := c.ParamsInt("anio")
	if err != nil {
		return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "anio inválido")
	}
	month, err := c.ParamsInt("mes")
	if err != nil {
		return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "mes inválido")
	}
	return uint(zoneID), year, month, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if err := bodyValidator.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fiber.NewError(fiber.StatusBadRequest, "Campos inválidos: "+strings.Join(fields, ", "))
		}
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	return nil
}

// GET /api/cierre-mensual/validar/:zonaId/:anio/:mes
func ValidateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, year, month, err := periodParams(c)
		if err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		v, err := svc.Validate(c.UserContext(), actor, zoneID, year, month)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(v)
	}
}

// GET /api/cierre-mensual/estado/:zonaId/:anio/:mes
func StateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, year, month, err := periodParams(c)
		if err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		st, err := svc.GetState(c.UserContext(), actor, zoneID, year, month)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(EstadoCierre{
			Period:   NewPeriodResponse(st.Period),
			Closure:  newClosureResponse(st.Closure),
			IsClosed: st.IsClosed,
		})
	}
}

// POST /api/cierre-mensual/cerrar
func CloseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CloseRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		res, err := svc.Close(c.UserContext(), actor, body.ZoneID, body.Year, body.Month, strings.TrimSpace(body.Observations))
		if err != nil {
			var vf *ValidationFailure
			if errors.As(err, &vf) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(CierreResponse{
					Success:    false,
					Message:    vf.Error(),
					Validation: vf.Result,
				})
			}
			return HTTPError(err)
		}

		return c.JSON(CierreResponse{
			Success:           true,
			Message:           "Período cerrado correctamente",
			Closure:           newClosureResponse(&res.Closure),
			StationsProcessed: res.StationsProcessed,
		})
	}
}

// POST /api/cierre-mensual/reabrir (admin)
func ReopenHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReopenRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		res, err := svc.Reopen(c.UserContext(), actor, body.ZoneID, body.Year, body.Month)
		if err != nil {
			return HTTPError(err)
		}

		deleted := res.SummariesDeleted
		return c.JSON(CierreResponse{
			Success:          true,
			Message:          "Período reabierto correctamente",
			Closure:          newClosureResponse(&res.Closure),
			SummariesDeleted: &deleted,
		})
	}
}

// GET /api/cierre-mensual/resumen/:zonaId/:anio/:mes
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, year, month, err := periodParams(c)
		if err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		rows, err := svc.Summaries(c.UserContext(), actor, zoneID, year, month)
		if err != nil {
			return HTTPError(err)
		}
		resp := make([]ResumenMensual, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, NewResumenMensual(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/cierre-mensual/saldo-inicial (admin)
func InitialBalanceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InitialBalanceRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		b, err := svc.SetInitialBalance(c.UserContext(), actor, body.ZoneID, body.Year, body.Month, body.Amount)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(fiber.Map{
			"zona_id":    b.ZoneID,
			"periodo_id": b.PeriodID,
			"monto":      money.Four(b.Amount),
		})
	}
}
