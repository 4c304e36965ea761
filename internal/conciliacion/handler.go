package conciliacion

import (
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/cierre"

	"github.com/gofiber/fiber/v2"
)

// GET /api/cierre-mensual/control-financiero/:zonaId/:anio/:mes
func FinancialControlHandler(calc *Calculator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, err := c.ParamsInt("zonaId")
		if err != nil || zoneID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "zonaId inválido")
		}
		year, err := c.ParamsInt("anio")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "anio inválido")
		}
		month, err := c.ParamsInt("mes")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "mes inválido")
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		fc, err := calc.Reconcile(c.UserContext(), actor, uint(zoneID), year, month)
		if err != nil {
			return cierre.HTTPError(err)
		}
		return c.JSON(fc)
	}
}

// GET /api/external/conciliacion-mensual?anio=&mes=[&zona_id=]
// Una llave limitada a una zona solo puede consultar esa zona.
func MonthlyConciliationHandler(calc *Calculator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("anio", 0)
		month := c.QueryInt("mes", 0)
		if year == 0 || month == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "anio y mes son obligatorios")
		}

		scope := auth.PartnerZone(c)
		if raw := c.QueryInt("zona_id", 0); raw != 0 {
			if raw < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "zona_id inválido")
			}
			requested := uint(raw)
			if scope != nil && *scope != requested {
				return fiber.NewError(fiber.StatusForbidden, "La llave no tiene acceso a esta zona")
			}
			scope = &requested
		}

		rep, err := calc.MonthlyConciliation(c.UserContext(), scope, year, month)
		if err != nil {
			return cierre.HTTPError(err)
		}
		return c.JSON(rep)
	}
}
