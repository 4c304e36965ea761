package auth

import (
	"fmt"
	"strings"

	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserRoleKey = "user_role"
	CtxZoneIDKey   = "zona_id"

	CtxPartnerKeyIDKey = "partner_key_id"
)

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Falta el encabezado Authorization")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "El formato de Authorization debe ser 'Bearer <token>'")
	}
	return parts[1], nil
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inválido")
		}
		return []byte(secret), nil
	}
}

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, err := bearerToken(c)
		if err != nil {
			return err
		}

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, keyFunc(cfg.JWTSecret))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o vencido")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "No se pudo leer el token")
		}
		// los tokens de socios no sirven para la API interna
		for _, aud := range claims.Audience {
			if aud == PartnerAudience {
				return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o vencido")
			}
		}
		if !claims.Role.Valid() {
			return fiber.NewError(fiber.StatusForbidden, "Rol desconocido")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxZoneIDKey, claims.ZoneID)

		return c.Next()
	}
}

// PartnerMiddleware acepta solo tokens emitidos por /external/token.
func PartnerMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims := &PartnerClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, keyFunc(cfg.JWTSecret), jwt.WithAudience(PartnerAudience))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o vencido")
		}

		c.Locals(CtxPartnerKeyIDKey, claims.KeyID)
		c.Locals(CtxZoneIDKey, claims.ZoneID)

		return c.Next()
	}
}

// PartnerZone devuelve la zona a la que está limitado el socio (nil: todas).
func PartnerZone(c *fiber.Ctx) *uint {
	if zPtr, ok := c.Locals(CtxZoneIDKey).(*uint); ok {
		return zPtr
	}
	return nil
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el rol")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tiene permiso para esta operación")
	}
}
