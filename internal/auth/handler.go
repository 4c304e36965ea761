package auth

import (
	"strings"
	"time"

	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/database"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ExternalTokenRequest struct {
	APIKey string `json:"api_key"` // "<key_id>.<secreto>"
}

// POST /api/auth/register-admin: solo permite crear el primer admin.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre, email y contraseña son obligatorios")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
		}

		var count int64
		if err := database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo verificar los usuarios")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Ya existe un administrador")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email o contraseña incorrectos")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email o contraseña incorrectos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":      user.ID,
				"name":    user.Name,
				"email":   user.Email,
				"role":    user.Role,
				"zona_id": user.ZoneID,
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Preload("Zone").First(&user, actor.UserID).Error; err != nil {
			// sin base: lo que trae el token
			return c.JSON(fiber.Map{
				"user_id": actor.UserID,
				"name":    actor.Name,
				"role":    actor.Role,
				"zona_id": actor.ZoneID,
			})
		}

		response := fiber.Map{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"zona_id": user.ZoneID,
		}
		if user.Zone != nil {
			response["zona"] = fiber.Map{
				"id":     user.Zone.ID,
				"nombre": user.Zone.Name,
				"codigo": user.Zone.Code,
			}
		}
		return c.JSON(response)
	}
}

// POST /api/external/token: canjea una API key por un token de socio.
func ExternalTokenHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ExternalTokenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
		}

		keyID, secret, ok := strings.Cut(strings.TrimSpace(body.APIKey), ".")
		if !ok || keyID == "" || secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "API key inválida")
		}

		var key models.APIKey
		if err := database.DB.Where("key_id = ? AND active = ?", keyID, true).First(&key).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "API key inválida")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "API key inválida")
		}

		token, expires, err := GeneratePartnerToken(cfg.JWTSecret, &key, cfg.ExternalTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		now := time.Now()
		if err := database.DB.Model(&key).Update("last_used_at", &now).Error; err != nil {
			config.LogError("auth", "ExternalTokenHandler", "actualizar last_used_at", fiber.Map{"key_id": key.KeyID}, err)
		}

		return c.JSON(fiber.Map{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int(time.Until(expires).Seconds()),
		})
	}
}
