package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"reporteventas-backend/internal/audit"
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/database"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/money"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var bodyValidator = validator.New()

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

// checkStation verifica que la estación pertenezca a la zona.
func checkStation(c *fiber.Ctx, zoneID uint, stationID *uint) error {
	if stationID == nil {
		return nil
	}
	var count int64
	if err := database.DB.WithContext(c.UserContext()).Model(&models.Station{}).
		Where("id = ? AND zone_id = ?", *stationID, zoneID).
		Count(&count).Error; err != nil {
		config.LogError("ledger", "checkStation", "verificar estación", fiber.Map{"estacion_id": *stationID, "zona_id": zoneID}, err)
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudo verificar la estación")
	}
	if count == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "La estación no pertenece a la zona")
	}
	return nil
}

// monthRange lee ?anio=&mes= (obligatorios).
func monthRange(c *fiber.Ctx) (models.Period, error) {
	year, month := c.QueryInt("anio", 0), c.QueryInt("mes", 0)
	if err := cierre.CheckPeriod(year, month); err != nil {
		return models.Period{}, cierre.HTTPError(err)
	}
	return models.NewPeriod(year, month), nil
}

// POST /api/entregas
func CreateDeliveryHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDeliveryRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		zoneID, err := auth.ResolveZone(c, body.ZoneID)
		if err != nil {
			return err
		}

		d, err := buildDelivery(body, zoneID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := checkStation(c, zoneID, d.StationID); err != nil {
			return err
		}
		if err := svc.EnsureOpen(c.UserContext(), zoneID, d.Date); err != nil {
			return cierre.HTTPError(err)
		}

		d.CreatedBy = actor.UserID
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &zoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityDelivery,
				EntityID:    d.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Entrega %s registrada: %s", d.Type, d.Amount.StringFixed(2)),
				After:       NewDeliveryResponse(d),
			})
		})
		if err != nil {
			config.LogError("ledger", "CreateDeliveryHandler", "crear entrega", fiber.Map{"zona_id": zoneID}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo registrar la entrega")
		}
		return c.Status(fiber.StatusCreated).JSON(NewDeliveryResponse(d))
	}
}

// GET /api/entregas?zona_id=&anio=&mes=&tipo=&estacion_id=
func ListDeliveriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, err := auth.ResolveZoneQuery(c)
		if err != nil {
			return err
		}
		p, err := monthRange(c)
		if err != nil {
			return err
		}

		q := database.DB.WithContext(c.UserContext()).
			Where("zone_id = ? AND date BETWEEN ? AND ?", zoneID, p.StartDate, p.EndDate)
		if t := models.DeliveryType(c.Query("tipo")); t != "" {
			if !t.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "tipo inválido")
			}
			q = q.Where("type = ?", t)
		}
		if sid := c.QueryInt("estacion_id", 0); sid > 0 {
			q = q.Where("station_id = ?", sid)
		}

		var rows []models.Delivery
		if err := q.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
			config.LogError("ledger", "ListDeliveriesHandler", "listar entregas", zoneID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las entregas")
		}
		resp := make([]DeliveryResponse, 0, len(rows))
		for _, d := range rows {
			resp = append(resp, NewDeliveryResponse(d))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/entregas/:id
func DeleteDeliveryHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var d models.Delivery
		if err := database.DB.WithContext(c.UserContext()).First(&d, c.Params("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Entrega no encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo leer la entrega")
		}
		if !actor.CanAccessZone(d.ZoneID) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene acceso a esta zona")
		}
		if err := svc.EnsureOpen(c.UserContext(), d.ZoneID, d.Date); err != nil {
			return cierre.HTTPError(err)
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Delivery{}, d.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &d.ZoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityDelivery,
				EntityID:    d.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Entrega %s eliminada: %s", d.Type, d.Amount.StringFixed(2)),
				Before:      NewDeliveryResponse(d),
			})
		})
		if err != nil {
			config.LogError("ledger", "DeleteDeliveryHandler", "eliminar entrega", d.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la entrega")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/gastos
func CreateExpenseHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		zoneID, err := auth.ResolveZone(c, body.ZoneID)
		if err != nil {
			return err
		}

		e, err := buildExpense(body, zoneID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := checkStation(c, zoneID, e.StationID); err != nil {
			return err
		}
		if err := svc.EnsureOpen(c.UserContext(), zoneID, e.Date); err != nil {
			return cierre.HTTPError(err)
		}

		e.CreatedBy = actor.UserID
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &zoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityExpense,
				EntityID:    e.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Gasto registrado: %s - %s", e.Category, e.Amount.StringFixed(2)),
				After:       NewExpenseResponse(e),
			})
		})
		if err != nil {
			config.LogError("ledger", "CreateExpenseHandler", "crear gasto", fiber.Map{"zona_id": zoneID}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo registrar el gasto")
		}
		return c.Status(fiber.StatusCreated).JSON(NewExpenseResponse(e))
	}
}

// GET /api/gastos?zona_id=&anio=&mes=&categoria=&estacion_id=
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, err := auth.ResolveZoneQuery(c)
		if err != nil {
			return err
		}
		p, err := monthRange(c)
		if err != nil {
			return err
		}

		q := database.DB.WithContext(c.UserContext()).
			Where("zone_id = ? AND date BETWEEN ? AND ?", zoneID, p.StartDate, p.EndDate)
		if cat := strings.TrimSpace(c.Query("categoria")); cat != "" {
			q = q.Where("category = ?", cat)
		}
		if sid := c.QueryInt("estacion_id", 0); sid > 0 {
			q = q.Where("station_id = ?", sid)
		}

		var rows []models.Expense
		if err := q.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
			config.LogError("ledger", "ListExpensesHandler", "listar gastos", zoneID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los gastos")
		}
		resp := make([]ExpenseResponse, 0, len(rows))
		for _, e := range rows {
			resp = append(resp, NewExpenseResponse(e))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/gastos/:id
func DeleteExpenseHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var e models.Expense
		if err := database.DB.WithContext(c.UserContext()).First(&e, c.Params("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Gasto no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo leer el gasto")
		}
		if !actor.CanAccessZone(e.ZoneID) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene acceso a esta zona")
		}
		if err := svc.EnsureOpen(c.UserContext(), e.ZoneID, e.Date); err != nil {
			return cierre.HTTPError(err)
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Expense{}, e.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &e.ZoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityExpense,
				EntityID:    e.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Gasto eliminado: %s - %s", e.Category, e.Amount.StringFixed(2)),
				Before:      NewExpenseResponse(e),
			})
		})
		if err != nil {
			config.LogError("ledger", "DeleteExpenseHandler", "eliminar gasto", e.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el gasto")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/gastos/resumen-mensual?zona_id=&anio=&mes=
func MonthlyExpenseSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, err := auth.ResolveZoneQuery(c)
		if err != nil {
			return err
		}
		p, err := monthRange(c)
		if err != nil {
			return err
		}

		type row struct {
			Category string
			Total    decimal.Decimal
		}
		var rows []row
		if err := database.DB.WithContext(c.UserContext()).
			Model(&models.Expense{}).
			Select("category, COALESCE(SUM(amount), 0) AS total").
			Where("zone_id = ? AND date BETWEEN ? AND ?", zoneID, p.StartDate, p.EndDate).
			Group("category").
			Order("category ASC").
			Scan(&rows).Error; err != nil {
			config.LogError("ledger", "MonthlyExpenseSummaryHandler", "resumir gastos", zoneID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo calcular el resumen")
		}

		resp := MonthlySummaryResponse{ZoneID: zoneID, Year: p.Year, Month: p.Month, Items: make([]SummaryItem, 0, len(rows))}
		grand := decimal.Zero
		for _, r := range rows {
			resp.Items = append(resp.Items, SummaryItem{Key: r.Category, Total: money.Two(r.Total)})
			grand = grand.Add(r.Total)
		}
		resp.GrandTotal = money.Two(grand)
		return c.JSON(resp)
	}
}
