package auth

import (
	"time"

	"reporteventas-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PartnerAudience identifica los tokens emitidos a socios externos.
const PartnerAudience = "partner"

type JWTCustomClaims struct {
	UserID uint            `json:"user_id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	ZoneID *uint           `json:"zona_id"`
	jwt.RegisteredClaims
}

// PartnerClaims: token de corta duración canjeado con una API key.
type PartnerClaims struct {
	KeyID  string `json:"key_id"`
	ZoneID *uint  `json:"zona_id"` // nil: todas las zonas
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		ZoneID: user.ZoneID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GeneratePartnerToken(secret string, key *models.APIKey, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := &PartnerClaims{
		KeyID:  key.KeyID,
		ZoneID: key.ZoneID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   key.KeyID,
			Audience:  jwt.ClaimStrings{PartnerAudience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, expires, err
}
