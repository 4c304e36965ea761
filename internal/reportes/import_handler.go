package reportes

import (
	"fmt"
	"strings"

	"reporteventas-backend/internal/audit"
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/cierre"
	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/database"
	"reporteventas-backend/internal/metrics"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ImportResponse struct {
	Created int        `json:"creados"`
	Skipped int        `json:"omitidos"`
	Errors  []RowError `json:"errores"`
	Reports []uint     `json:"reportes"`
}

// POST /api/reportes-diarios/importar (multipart, campo "file")
// Cada reporte se guarda por separado; un reporte inválido no detiene el resto.
func ImportReportsHandler(svc *cierre.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se recibió el archivo")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se aceptan archivos .xlsx")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo abrir el archivo")
		}
		defer file.Close()

		parsed, rowErrors, err := ParseWorkbook(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp := ImportResponse{Errors: rowErrors, Reports: []uint{}}
		if resp.Errors == nil {
			resp.Errors = []RowError{}
		}
		reject := func(pr ParsedReport, msg string) {
			resp.Skipped++
			resp.Errors = append(resp.Errors, RowError{Row: pr.Rows[0], Message: msg})
		}

		stations := map[string]*models.Station{}
		ctx := c.UserContext()
		for _, pr := range parsed {
			st, ok := stations[pr.StationCode]
			if !ok {
				var found models.Station
				res := database.DB.WithContext(ctx).Where("code = ?", pr.StationCode).Limit(1).Find(&found)
				if res.Error != nil {
					config.LogError("reportes", "ImportReportsHandler", "buscar estación", pr.StationCode, res.Error)
					return fiber.NewError(fiber.StatusInternalServerError, "No se pudo completar la importación")
				}
				if res.RowsAffected > 0 {
					st = &found
				}
				stations[pr.StationCode] = st
			}

			switch {
			case st == nil:
				reject(pr, fmt.Sprintf("estación %s no existe", pr.StationCode))
				continue
			case !actor.CanAccessZone(st.ZoneID):
				reject(pr, fmt.Sprintf("sin acceso a la estación %s", pr.StationCode))
				continue
			case !st.Active:
				reject(pr, fmt.Sprintf("estación %s inactiva", pr.StationCode))
				continue
			}
			if err := svc.EnsureOpen(ctx, st.ZoneID, pr.Report.Date); err != nil {
				reject(pr, cierre.HTTPError(err).Error())
				continue
			}

			report := pr.Report
			report.StationID = st.ID
			report.CreatedBy = actor.UserID

			var exists int64
			err = database.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&models.DailyReport{}).
					Where("station_id = ? AND date = ?", st.ID, report.Date).
					Count(&exists).Error; err != nil {
					return err
				}
				if exists > 0 {
					return nil
				}
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
					Description: fmt.Sprintf("Reporte %s de %s importado", report.Date.Format("2006-01-02"), st.Code),
					After:       NewReportResponse(report),
				})
			})
			if err != nil {
				config.LogError("reportes", "ImportReportsHandler", "guardar reporte", fiber.Map{"codigo": pr.StationCode, "filas": pr.Rows}, err)
				reject(pr, "no se pudo guardar el reporte")
				continue
			}
			if exists > 0 {
				reject(pr, fmt.Sprintf("ya existe reporte de %s para %s", pr.StationCode, report.Date.Format("2006-01-02")))
				continue
			}
			resp.Created++
			resp.Reports = append(resp.Reports, report.ID)
		}

		metrics.AddImportedReports(metrics.ResultSuccess, resp.Created)
		metrics.AddImportedReports(metrics.ResultRejected, len(resp.Errors))
		config.Logger().WithFields(map[string]any{
			"user_id":  actor.UserID,
			"creados":  resp.Created,
			"omitidos": resp.Skipped,
			"errores":  len(resp.Errors),
		}).Info("importación de reportes diarios")

		return c.JSON(resp)
	}
}
