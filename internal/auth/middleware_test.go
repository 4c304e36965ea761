package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reporteventas-backend/internal/config"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestApp(cfg *config.Config, mw fiber.Handler, h fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/x", mw, h)
	return app
}

func mustUserToken(t *testing.T, role models.UserRole, zoneID *uint) string {
	t.Helper()
	token, err := GenerateToken(testSecret, &models.User{ID: 7, Name: "Ana", Email: "ana@example.com", Role: role, ZoneID: zoneID})
	require.NoError(t, err)
	return token
}

func do(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJWTMiddleware_NoToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := newTestApp(cfg, JWTMiddleware(cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, do(t, app, ""))
}

func TestJWTMiddleware_SetsActor(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	zone := uint(3)
	var got Actor
	app := newTestApp(cfg, JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		a, err := ActorFromCtx(c)
		if err != nil {
			return err
		}
		got = a
		return c.SendStatus(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, do(t, app, mustUserToken(t, models.RoleZoneManager, &zone)))
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "Ana", got.Name)
	assert.False(t, got.IsAdmin())
	assert.True(t, got.CanAccessZone(3))
	assert.False(t, got.CanAccessZone(4))
}

func TestJWTMiddleware_UnknownRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := newTestApp(cfg, JWTMiddleware(cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, do(t, app, mustUserToken(t, models.UserRole("cajero"), nil)))
}

func TestJWTMiddleware_RejectsPartnerToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := newTestApp(cfg, JWTMiddleware(cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	token, _, err := GeneratePartnerToken(testSecret, &models.APIKey{KeyID: "k1"}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, app, token))
}

func TestPartnerMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	zone := uint(2)
	var gotZone *uint
	app := newTestApp(cfg, PartnerMiddleware(cfg), func(c *fiber.Ctx) error {
		gotZone = PartnerZone(c)
		return c.SendStatus(http.StatusOK)
	})

	token, expires, err := GeneratePartnerToken(testSecret, &models.APIKey{KeyID: "k1", ZoneID: &zone}, 15*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expires, 5*time.Second)

	require.Equal(t, http.StatusOK, do(t, app, token))
	require.NotNil(t, gotZone)
	assert.Equal(t, uint(2), *gotZone)

	// un token de usuario no tiene audiencia partner
	assert.Equal(t, http.StatusUnauthorized, do(t, app, mustUserToken(t, models.RoleAdmin, nil)))
}

func TestPartnerMiddleware_Expired(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := newTestApp(cfg, PartnerMiddleware(cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	claims := &PartnerClaims{
		KeyID: "k1",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{PartnerAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, app, signed))
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	app.Get("/x", JWTMiddleware(cfg), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	zone := uint(1)
	assert.Equal(t, http.StatusForbidden, do(t, app, mustUserToken(t, models.RoleZoneManager, &zone)))
	assert.Equal(t, http.StatusOK, do(t, app, mustUserToken(t, models.RoleAdmin, nil)))
}

func TestResolveZone(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	zone := uint(5)
	cases := []struct {
		name   string
		token  string
		target string
		want   int
	}{
		{"gerente sin zona pedida usa la suya", mustUserToken(t, models.RoleZoneManager, &zone), "/x", http.StatusOK},
		{"gerente otra zona", mustUserToken(t, models.RoleZoneManager, &zone), "/x?zona_id=6", http.StatusForbidden},
		{"admin sin zona", mustUserToken(t, models.RoleAdmin, nil), "/x", http.StatusBadRequest},
		{"admin cualquier zona", mustUserToken(t, models.RoleAdmin, nil), "/x?zona_id=6", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(cfg, JWTMiddleware(cfg), func(c *fiber.Ctx) error {
				if _, err := ResolveZoneQuery(c); err != nil {
					return err
				}
				return c.SendStatus(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
