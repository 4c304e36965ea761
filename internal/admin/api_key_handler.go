package admin

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"reporteventas-backend/internal/audit"
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/database"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const secretBytes = 32

type CreateAPIKeyRequest struct {
	Name   string `json:"nombre"`
	ZoneID *uint  `json:"zona_id"` // nil: todas las zonas
}

type APIKeyResponse struct {
	ID         uint    `json:"id"`
	KeyID      string  `json:"key_id"`
	Name       string  `json:"nombre"`
	ZoneID     *uint   `json:"zona_id"`
	Active     bool    `json:"activa"`
	LastUsedAt *string `json:"ultimo_uso,omitempty"`
	CreatedAt  string  `json:"creada"`
}

type CreatedAPIKeyResponse struct {
	APIKeyResponse
	APIKey string `json:"api_key"` // "keyid.secreto"; solo se muestra al crearla
}

func newAPIKeyResponse(k models.APIKey) APIKeyResponse {
	resp := APIKeyResponse{
		ID:        k.ID,
		KeyID:     k.KeyID,
		Name:      k.Name,
		ZoneID:    k.ZoneID,
		Active:    k.Active,
		CreatedAt: k.CreatedAt.UTC().Format(time.RFC3339),
	}
	if k.LastUsedAt != nil {
		s := k.LastUsedAt.UTC().Format(time.RFC3339)
		resp.LastUsedAt = &s
	}
	return resp
}

// newCredential genera el identificador público, el secreto y su hash.
func newCredential() (keyID, secret, hash string, err error) {
	buf := make([]byte, secretBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("generar secreto: %w", err)
	}
	secret = hex.EncodeToString(buf)
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hash del secreto: %w", err)
	}
	return uuid.NewString(), secret, string(h), nil
}

// POST /api/admin/api-keys
func CreateAPIKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAPIKeyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre de la llave es obligatorio")
		}
		if body.ZoneID != nil {
			var count int64
			database.DB.Model(&models.Zone{}).Where("id = ?", *body.ZoneID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Zona no encontrada")
			}
		}
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		keyID, secret, hash, err := newCredential()
		if err != nil {
			config.LogError("admin", "CreateAPIKeyHandler", "generar credencial", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar la llave")
		}
		key := models.APIKey{
			KeyID:      keyID,
			Name:       body.Name,
			SecretHash: hash,
			ZoneID:     body.ZoneID,
			Active:     true,
			CreatedBy:  actor.UserID,
		}
		if err := database.DB.Create(&key).Error; err != nil {
			config.LogError("admin", "CreateAPIKeyHandler", "guardar llave", body.Name, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la llave")
		}

		writeAudit(c, audit.LogOptions{
			ZoneID:      key.ZoneID,
			EntityType:  audit.EntityAPIKey,
			EntityID:    key.ID,
			Action:      models.AuditActionCreate,
			Description: "API key creada: " + key.Name,
			After:       newAPIKeyResponse(key),
		})
		return c.Status(fiber.StatusCreated).JSON(CreatedAPIKeyResponse{
			APIKeyResponse: newAPIKeyResponse(key),
			APIKey:         keyID + "." + secret,
		})
	}
}

// GET /api/admin/api-keys
func ListAPIKeysHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var keys []models.APIKey
		if err := database.DB.WithContext(c.UserContext()).Order("id ASC").Find(&keys).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las llaves")
		}
		res := make([]APIKeyResponse, 0, len(keys))
		for _, k := range keys {
			res = append(res, newAPIKeyResponse(k))
		}
		return c.JSON(res)
	}
}

// DELETE /api/admin/api-keys/:id
// La llave se desactiva; los tokens ya emitidos vencen por su cuenta.
func RevokeAPIKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var key models.APIKey
		if err := database.DB.WithContext(c.UserContext()).First(&key, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Llave no encontrada")
		}
		if !key.Active {
			return c.SendStatus(fiber.StatusNoContent)
		}
		before := newAPIKeyResponse(key)
		if err := database.DB.Model(&key).Update("active", false).Error; err != nil {
			config.LogError("admin", "RevokeAPIKeyHandler", "revocar llave", key.KeyID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo revocar la llave")
		}
		key.Active = false

		writeAudit(c, audit.LogOptions{
			ZoneID:      key.ZoneID,
			EntityType:  audit.EntityAPIKey,
			EntityID:    key.ID,
			Action:      models.AuditActionUpdate,
			Description: "API key revocada: " + key.Name,
			Before:      before,
			After:       newAPIKeyResponse(key),
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
