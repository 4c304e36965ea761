package auth

import (
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Actor es el usuario autenticado que ejecuta una operación.
type Actor struct {
	UserID uint
	Name   string
	Role   models.UserRole
	ZoneID *uint
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanAccessZone: el admin ve todas las zonas, el gerente solo la suya.
func (a Actor) CanAccessZone(zoneID uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.ZoneID != nil && *a.ZoneID == zoneID
}

// ActorFromCtx arma el Actor con lo que JWTMiddleware dejó en Locals.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el usuario")
	}
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el rol")
	}
	name, _ := c.Locals(CtxUserNameKey).(string)

	a := Actor{UserID: userID, Name: name, Role: role}
	if zPtr, ok := c.Locals(CtxZoneIDKey).(*uint); ok && zPtr != nil {
		a.ZoneID = zPtr
	}
	return a, nil
}

// ResolveZone valida que el actor pueda operar sobre la zona pedida. Para el
// gerente de zona, requested == 0 significa "mi zona".
func ResolveZone(c *fiber.Ctx, requested uint) (uint, error) {
	a, err := ActorFromCtx(c)
	if err != nil {
		return 0, err
	}
	if requested == 0 {
		if a.IsAdmin() {
			return 0, fiber.NewError(fiber.StatusBadRequest, "zona_id es obligatorio")
		}
		if a.ZoneID == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "El usuario no tiene zona asignada")
		}
		return *a.ZoneID, nil
	}
	if !a.CanAccessZone(requested) {
		return 0, fiber.NewError(fiber.StatusForbidden, "No tiene acceso a esta zona")
	}
	return requested, nil
}

// ResolveZoneQuery hace lo mismo que ResolveZone leyendo ?zona_id=.
func ResolveZoneQuery(c *fiber.Ctx) (uint, error) {
	raw := c.QueryInt("zona_id", 0)
	if raw < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "zona_id inválido")
	}
	return ResolveZone(c, uint(raw))
}
