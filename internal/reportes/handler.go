package reportes

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

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
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

// loadStation busca la estación y verifica que el actor tenga acceso a su zona.
func loadStation(c *fiber.Ctx, actor auth.Actor, stationID uint) (*models.Station, error) {
	var st models.Station
	if err := database.DB.WithContext(c.UserContext()).First(&st, stationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Estación no encontrada")
		}
		config.LogError("reportes", "loadStation", "buscar estación", stationID, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudo leer la estación")
	}
	if !actor.CanAccessZone(st.ZoneID) {
		return nil, fiber.NewError(fiber.StatusForbidden, "No tiene acceso a esta estación")
	}
	return &st, nil
}

// loadReport busca el reporte con su estación y verifica el acceso.
func loadReport(c *fiber.Ctx, actor auth.Actor) (*models.DailyReport, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	var r models.DailyReport
	if err := database.DB.WithContext(c.UserContext()).Preload("Station").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Reporte no encontrado")
		}
		config.LogError("reportes", "loadReport", "buscar reporte", id, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudo leer el reporte")
	}
	if !actor.CanAccessZone(r.Station.ZoneID) {
		return nil, fiber.NewError(fiber.StatusForbidden, "No tiene acceso a esta estación")
	}
	return &r, nil
}

// POST /api/reportes-diarios
func CreateReportHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReportRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		report, err := buildReport(body)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st, err := loadStation(c, actor, body.StationID)
		if err != nil {
			return err
		}
		if !st.Active {
			return fiber.NewError(fiber.StatusBadRequest, "La estación está inactiva")
		}
		if err := svc.EnsureOpen(c.UserContext(), st.ZoneID, report.Date); err != nil {
			return cierre.HTTPError(err)
		}

		var exists int64
		if err := database.DB.Model(&models.DailyReport{}).
			Where("station_id = ? AND date = ?", st.ID, report.Date).
			Count(&exists).Error; err != nil {
			config.LogError("reportes", "CreateReportHandler", "verificar duplicado", fiber.Map{"estacion_id": st.ID}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el reporte")
		}
		if exists > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ya existe un reporte para esta estación y fecha")
		}

		report.CreatedBy = actor.UserID
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &st.ZoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityDailyReport,
				EntityID:    report.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Reporte %s de %s capturado", report.Date.Format("2006-01-02"), st.Code),
				After:       NewReportResponse(report),
			})
		})
		if err != nil {
			config.LogError("reportes", "CreateReportHandler", "crear reporte", fiber.Map{"estacion_id": st.ID, "fecha": body.Date}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el reporte")
		}

		report.Station = *st
		return c.Status(fiber.StatusCreated).JSON(NewReportResponse(report))
	}
}

// PUT /api/reportes-diarios/:id
// Solo se corrige mientras el reporte está Pendiente; estación y fecha no cambian.
func UpdateReportHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		current, err := loadReport(c, actor)
		if err != nil {
			return err
		}
		if current.Status != models.ReportPending {
			return fiber.NewError(fiber.StatusConflict, "Solo se pueden corregir reportes pendientes")
		}

		var body ReportRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		next, err := buildReport(body)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if next.StationID != current.StationID || !next.Date.Equal(current.Date) {
			return fiber.NewError(fiber.StatusBadRequest, "No se puede cambiar la estación ni la fecha del reporte")
		}
		if err := svc.EnsureOpen(c.UserContext(), current.Station.ZoneID, current.Date); err != nil {
			return cierre.HTTPError(err)
		}

		before := NewReportResponse(*current)
		current.Premium, current.Magna, current.Diesel = next.Premium, next.Magna, next.Diesel
		current.OilsAmount = next.OilsAmount

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Station").Save(current).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &current.Station.ZoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityDailyReport,
				EntityID:    current.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Reporte %s de %s corregido", current.Date.Format("2006-01-02"), current.Station.Code),
				Before:      before,
				After:       NewReportResponse(*current),
			})
		})
		if err != nil {
			config.LogError("reportes", "UpdateReportHandler", "actualizar reporte", current.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el reporte")
		}
		return c.JSON(NewReportResponse(*current))
	}
}

// POST /api/reportes-diarios/:id/aprobar y /api/reportes-diarios/:id/rechazar
func ReviewReportHandler(svc *cierre.Service, to models.ReportStatus) fiber.Handler {
	action := models.AuditActionApprove
	verb := "aprobado"
	if to == models.ReportRejected {
		action = models.AuditActionReject
		verb = "rechazado"
	}

	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		r, err := loadReport(c, actor)
		if err != nil {
			return err
		}
		if err := svc.EnsureOpen(c.UserContext(), r.Station.ZoneID, r.Date); err != nil {
			return cierre.HTTPError(err)
		}

		before := NewReportResponse(*r)
		if err := applyReview(r, to, actor.UserID, time.Now().UTC()); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.DailyReport{}).
				Where("id = ? AND status = ?", r.ID, models.ReportPending).
				Updates(map[string]any{"status": r.Status, "reviewed_by": r.ReviewedBy, "reviewed_at": r.ReviewedAt})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "El reporte ya fue revisado")
			}
			return audit.WriteLog(tx, audit.LogOptions{
				ZoneID:      &r.Station.ZoneID,
				UserID:      actor.UserID,
				UserName:    actor.Name,
				EntityType:  audit.EntityDailyReport,
				EntityID:    r.ID,
				Action:      action,
				Description: fmt.Sprintf("Reporte %s de %s %s", r.Date.Format("2006-01-02"), r.Station.Code, verb),
				Before:      before,
				After:       NewReportResponse(*r),
			})
		})
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return fe
			}
			config.LogError("reportes", "ReviewReportHandler", "revisar reporte", r.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo revisar el reporte")
		}
		return c.JSON(NewReportResponse(*r))
	}
}

// GET /api/reportes-diarios/:id
func GetReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		r, err := loadReport(c, actor)
		if err != nil {
			return err
		}
		return c.JSON(NewReportResponse(*r))
	}
}

// GET /api/reportes-diarios?zona_id=&estacion_id=&anio=&mes=&estado=
func ListReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, err := auth.ResolveZoneQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.WithContext(c.UserContext()).
			Model(&models.DailyReport{}).
			Preload("Station").
			Joins("JOIN stations ON stations.id = daily_reports.station_id").
			Where("stations.zone_id = ?", zoneID)

		if sid := c.QueryInt("estacion_id", 0); sid > 0 {
			q = q.Where("daily_reports.station_id = ?", sid)
		}
		year, month := c.QueryInt("anio", 0), c.QueryInt("mes", 0)
		if year != 0 || month != 0 {
			if err := cierre.CheckPeriod(year, month); err != nil {
				return cierre.HTTPError(err)
			}
			p := models.NewPeriod(year, month)
			q = q.Where("daily_reports.date BETWEEN ? AND ?", p.StartDate, p.EndDate)
		}
		if estado := c.Query("estado"); estado != "" {
			q = q.Where("daily_reports.status = ?", estado)
		}

		var rows []models.DailyReport
		if err := q.Order("daily_reports.date ASC, daily_reports.station_id ASC").Find(&rows).Error; err != nil {
			config.LogError("reportes", "ListReportsHandler", "listar reportes", zoneID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los reportes")
		}

		resp := make([]ReportResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, NewReportResponse(r))
		}
		return c.JSON(resp)
	}
}
