package admin

import (
	"errors"
	"fmt"
	"strings"

	"reporteventas-backend/internal/audit"
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/database"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ZoneResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"nombre"`
	Code      string `json:"codigo"`
	CreatedAt string `json:"creado"`
}

type ZoneRequest struct {
	Name string `json:"nombre"`
	Code string `json:"codigo"`
}

type StationResponse struct {
	ID     uint   `json:"id"`
	ZoneID uint   `json:"zona_id"`
	Name   string `json:"nombre"`
	Code   string `json:"codigo"`
	Active bool   `json:"activa"`
}

type CreateStationRequest struct {
	Name string `json:"nombre"`
	Code string `json:"codigo"`
}

type UpdateStationRequest struct {
	Name   *string `json:"nombre"`
	Active *bool   `json:"activa"`
}

type CreateManagerRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ManagerResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Role      string `json:"rol"`
	ZoneID    *uint  `json:"zona_id"`
	CreatedAt string `json:"creado"`
}

func newZoneResponse(z models.Zone) ZoneResponse {
	return ZoneResponse{ID: z.ID, Name: z.Name, Code: z.Code, CreatedAt: z.CreatedAt.Format("2006-01-02 15:04:05")}
}

func newStationResponse(s models.Station) StationResponse {
	return StationResponse{ID: s.ID, ZoneID: s.ZoneID, Name: s.Name, Code: s.Code, Active: s.Active}
}

func findZone(c *fiber.Ctx) (*models.Zone, error) {
	var zone models.Zone
	if err := database.DB.WithContext(c.UserContext()).First(&zone, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Zona no encontrada")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudo leer la zona")
	}
	return &zone, nil
}

// writeAudit registra la operación; un fallo de bitácora no revierte la operación administrativa.
func writeAudit(c *fiber.Ctx, opts audit.LogOptions) {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return
	}
	opts.UserID = actor.UserID
	opts.UserName = actor.Name
	if err := audit.WriteLog(database.DB.WithContext(c.UserContext()), opts); err != nil {
		config.LogError("admin", "writeAudit", opts.EntityType, opts.EntityID, err)
	}
}

// ----------------------------------------
// ZONAS
// ----------------------------------------

// POST /api/admin/zonas
func CreateZoneHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ZoneRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre de la zona es obligatorio")
		}

		var exists int64
		database.DB.Model(&models.Zone{}).Where("name = ?", body.Name).Count(&exists)
		if exists > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ya existe una zona con ese nombre")
		}

		zone := models.Zone{Name: body.Name, Code: body.Code}
		if err := database.DB.Create(&zone).Error; err != nil {
			config.LogError("admin", "CreateZoneHandler", "crear zona", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la zona")
		}

		writeAudit(c, audit.LogOptions{
			ZoneID:      &zone.ID,
			EntityType:  audit.EntityZone,
			EntityID:    zone.ID,
			Action:      models.AuditActionCreate,
			Description: "Zona creada: " + zone.Name,
			After:       newZoneResponse(zone),
		})
		return c.Status(fiber.StatusCreated).JSON(newZoneResponse(zone))
	}
}

// GET /api/admin/zonas
func ListZonesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var zones []models.Zone
		if err := database.DB.WithContext(c.UserContext()).Order("id ASC").Find(&zones).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las zonas")
		}
		res := make([]ZoneResponse, 0, len(zones))
		for _, z := range zones {
			res = append(res, newZoneResponse(z))
		}
		return c.JSON(res)
	}
}

// GET /api/admin/zonas/:id
func GetZoneHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zone, err := findZone(c)
		if err != nil {
			return err
		}
		return c.JSON(newZoneResponse(*zone))
	}
}

// PUT /api/admin/zonas/:id
func UpdateZoneHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zone, err := findZone(c)
		if err != nil {
			return err
		}
		var body ZoneRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before := newZoneResponse(*zone)
		if name := strings.TrimSpace(body.Name); name != "" {
			zone.Name = name
		}
		if code := strings.TrimSpace(body.Code); code != "" {
			zone.Code = strings.ToUpper(code)
		}
		if err := database.DB.Save(zone).Error; err != nil {
			config.LogError("admin", "UpdateZoneHandler", "actualizar zona", zone.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la zona")
		}

		writeAudit(c, audit.LogOptions{
			ZoneID:      &zone.ID,
			EntityType:  audit.EntityZone,
			EntityID:    zone.ID,
			Action:      models.AuditActionUpdate,
			Description: "Zona actualizada: " + zone.Name,
			Before:      before,
			After:       newZoneResponse(*zone),
		})
		return c.JSON(newZoneResponse(*zone))
	}
}

// DELETE /api/admin/zonas/:id
// Solo se elimina una zona sin estaciones.
func DeleteZoneHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zone, err := findZone(c)
		if err != nil {
			return err
		}
		var stations int64
		if err := database.DB.Model(&models.Station{}).Where("zone_id = ?", zone.ID).Count(&stations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la zona")
		}
		if stations > 0 {
			return fiber.NewError(fiber.StatusConflict, "La zona tiene estaciones; desactívelas en lugar de eliminar la zona")
		}
		if err := database.DB.Delete(&models.Zone{}, zone.ID).Error; err != nil {
			config.LogError("admin", "DeleteZoneHandler", "eliminar zona", zone.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la zona")
		}

		writeAudit(c, audit.LogOptions{
			EntityType:  audit.EntityZone,
			EntityID:    zone.ID,
			Action:      models.AuditActionDelete,
			Description: "Zona eliminada: " + zone.Name,
			Before:      newZoneResponse(*zone),
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// ESTACIONES
// ----------------------------------------

// POST /api/admin/zonas/:id/estaciones
func CreateStationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zone, err := findZone(c)
		if err != nil {
			return err
		}
		var body CreateStationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Name == "" || body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre y código de la estación son obligatorios")
		}

		var exists int64
		database.DB.Model(&models.Station{}).Where("code = ?", body.Code).Count(&exists)
		if exists > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ya existe una estación con ese código")
		}

		st := models.Station{ZoneID: zone.ID, Name: body.Name, Code: body.Code, Active: true}
		if err := database.DB.Create(&st).Error; err != nil {
			config.LogError("admin", "CreateStationHandler", "crear estación", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la estación")
		}

		writeAudit(c, audit.LogOptions{
			ZoneID:      &zone.ID,
			EntityType:  audit.EntityStation,
			EntityID:    st.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Estación %s creada en %s", st.Code, zone.Name),
			After:       newStationResponse(st),
		})
		return c.Status(fiber.StatusCreated).JSON(newStationResponse(st))
	}
}

// GET /api/estaciones?zona_id=  (admin y gerente de su zona)
func ListStationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zoneID, err := auth.ResolveZoneQuery(c)
		if err != nil {
			return err
		}
		q := database.DB.WithContext(c.UserContext()).Where("zone_id = ?", zoneID)
		if c.Query("activas") == "true" {
			q = q.Where("active = ?", true)
		}
		var stations []models.Station
		if err := q.Order("code ASC").Find(&stations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las estaciones")
		}
		res := make([]StationResponse, 0, len(stations))
		for _, s := range stations {
			res = append(res, newStationResponse(s))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/estaciones/:id
// Desactivar una estación la excluye de la validación de períodos futuros.
func UpdateStationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st models.Station
		if err := database.DB.WithContext(c.UserContext()).First(&st, "id = ?", c.Params("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Estación no encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo leer la estación")
		}
		var body UpdateStationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		before := newStationResponse(st)
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre no puede quedar vacío")
			}
			st.Name = name
		}
		if body.Active != nil {
			st.Active = *body.Active
		}
		if err := database.DB.Model(&st).Select("name", "active").Updates(&st).Error; err != nil {
			config.LogError("admin", "UpdateStationHandler", "actualizar estación", st.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la estación")
		}

		writeAudit(c, audit.LogOptions{
			ZoneID:      &st.ZoneID,
			EntityType:  audit.EntityStation,
			EntityID:    st.ID,
			Action:      models.AuditActionUpdate,
			Description: "Estación actualizada: " + st.Code,
			Before:      before,
			After:       newStationResponse(st),
		})
		return c.JSON(newStationResponse(st))
	}
}

// ----------------------------------------
// GERENTES DE ZONA
// ----------------------------------------

// POST /api/admin/zonas/:id/gerentes
func CreateZoneManagerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		zone, err := findZone(c)
		if err != nil {
			return err
		}
		var body CreateManagerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre, email y contraseña son obligatorios")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
		}

		var exists int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&exists)
		if exists > 0 {
			return fiber.NewError(fiber.StatusConflict, "El email ya está registrado")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}
		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleZoneManager,
			ZoneID:       &zone.ID,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			config.LogError("admin", "CreateZoneManagerHandler", "crear gerente", body.Email, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el gerente")
		}

		return c.Status(fiber.StatusCreated).JSON(ManagerResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      string(user.Role),
			ZoneID:    user.ZoneID,
			CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/admin/zonas/:id/gerentes
func ListZoneManagersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.WithContext(c.UserContext()).
			Where("zone_id = ? AND role = ?", c.Params("id"), models.RoleZoneManager).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los gerentes")
		}
		res := make([]ManagerResponse, 0, len(users))
		for _, u := range users {
			res = append(res, ManagerResponse{
				ID:        u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      string(u.Role),
				ZoneID:    u.ZoneID,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
