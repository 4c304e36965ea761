package cierre

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withActor(a auth.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, a.UserID)
		c.Locals(auth.CtxUserNameKey, a.Name)
		c.Locals(auth.CtxUserRoleKey, a.Role)
		c.Locals(auth.CtxZoneIDKey, a.ZoneID)
		return c.Next()
	}
}

func newTestApp(svc *Service, a auth.Actor) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	g := app.Group("/api/cierre-mensual", withActor(a))
	g.Get("/validar/:zonaId/:anio/:mes", ValidateHandler(svc))
	g.Get("/estado/:zonaId/:anio/:mes", StateHandler(svc))
	g.Get("/resumen/:zonaId/:anio/:mes", SummaryHandler(svc))
	g.Post("/cerrar", CloseHandler(svc))
	g.Post("/reabrir", ReopenHandler(svc))
	g.Put("/saldo-inicial", InitialBalanceHandler(svc))
	return app
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func periodPath(prefix string, zoneID uint) string {
	return fmt.Sprintf("/api/cierre-mensual/%s/%d/%d/%d", prefix, zoneID, testYear, testMonth)
}

func closeBody(zoneID uint) string {
	return fmt.Sprintf(`{"zonaId":%d,"anio":%d,"mes":%d,"observaciones":"ok"}`, zoneID, testYear, testMonth)
}

func TestValidateHandler(t *testing.T) {
	f := newFixture(t)
	f.fillDays(f.a, 30, models.ReportApproved)
	app := newTestApp(f.svc, f.manager())

	code, body := call(t, app, http.MethodGet, periodPath("validar", f.zone.ID), "")
	require.Equal(t, http.StatusOK, code, body)

	var v Validation
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.False(t, v.CanClose)
	assert.Equal(t, 1, v.CompleteStations)
	assert.Equal(t, 2, v.TotalStations)
	assert.Contains(t, body, `"puede_cerrar":false`)

	code, _ = call(t, app, http.MethodGet, "/api/cierre-mensual/validar/abc/2024/4", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCloseHandler_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	f.fillDays(f.a, 30, models.ReportApproved)
	app := newTestApp(f.svc, f.manager())

	code, body := call(t, app, http.MethodPost, "/api/cierre-mensual/cerrar", closeBody(f.zone.ID))
	require.Equal(t, http.StatusUnprocessableEntity, code, body)

	var resp CierreResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Validation)
	assert.Len(t, resp.Validation.Stations, 2)
	assert.Nil(t, resp.Closure)
}

func TestCloseAndSummaryHandlers(t *testing.T) {
	f := newFixture(t)
	f.completeMonth()
	app := newTestApp(f.svc, f.manager())

	code, body := call(t, app, http.MethodPost, "/api/cierre-mensual/cerrar", closeBody(f.zone.ID))
	require.Equal(t, http.StatusOK, code, body)
	var resp CierreResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.StationsProcessed)
	require.NotNil(t, resp.Closure)
	assert.True(t, resp.Closure.IsClosed)
	assert.Equal(t, "ok", resp.Closure.Observations)

	code, body = call(t, app, http.MethodGet, periodPath("resumen", f.zone.ID), "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"volumen_total":30000.00`)
	assert.Contains(t, body, `"precio_promedio":23.50`)
	assert.Contains(t, body, `"precio_promedio":21.90`)
	assert.Contains(t, body, `"estacion_codigo":"E-0001"`)
	assert.Contains(t, body, `"total_aceites":4500.00`)

	code, body = call(t, app, http.MethodGet, periodPath("estado", f.zone.ID), "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"cerrado":true`)
	assert.Contains(t, body, `"fecha_fin":"2024-04-30"`)

	code, _ = call(t, app, http.MethodPost, "/api/cierre-mensual/cerrar", closeBody(f.zone.ID))
	assert.Equal(t, http.StatusConflict, code)
}

func TestReopenHandler(t *testing.T) {
	f := newFixture(t)
	f.completeMonth()
	_, err := f.svc.Close(context.Background(), f.admin(), f.zone.ID, testYear, testMonth, "")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"zonaId":%d,"anio":%d,"mes":%d}`, f.zone.ID, testYear, testMonth)

	code, raw := call(t, newTestApp(f.svc, f.manager()), http.MethodPost, "/api/cierre-mensual/reabrir", body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, raw, `"error"`)

	code, raw = call(t, newTestApp(f.svc, f.admin()), http.MethodPost, "/api/cierre-mensual/reabrir", body)
	require.Equal(t, http.StatusOK, code, raw)
	assert.Contains(t, raw, `"resumenes_eliminados":2`)
	assert.Contains(t, raw, `"cerrado":false`)
}

func TestHandlers_Errors(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f.svc, f.admin())

	code, _ := call(t, app, http.MethodGet, periodPath("estado", 999), "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, app, http.MethodPost, "/api/cierre-mensual/cerrar", `{"zonaId":1,"anio":2024,"mes":13}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodPost, "/api/cierre-mensual/cerrar", `no es json`)
	assert.Equal(t, http.StatusBadRequest, code)

	f.completeMonth()
	f.store.FailOn("ReplaceSummaries", errors.New("disco lleno"))
	code, raw := call(t, app, http.MethodPost, "/api/cierre-mensual/cerrar", closeBody(f.zone.ID))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.NotContains(t, raw, "disco lleno")
}

func TestInitialBalanceHandler(t *testing.T) {
	f := newFixture(t)
	body := fmt.Sprintf(`{"zonaId":%d,"anio":%d,"mes":%d,"monto":"2500.5"}`, f.zone.ID, testYear, testMonth)

	code, _ := call(t, newTestApp(f.svc, f.manager()), http.MethodPut, "/api/cierre-mensual/saldo-inicial", body)
	assert.Equal(t, http.StatusForbidden, code)

	code, raw := call(t, newTestApp(f.svc, f.admin()), http.MethodPut, "/api/cierre-mensual/saldo-inicial", body)
	require.Equal(t, http.StatusOK, code, raw)
	assert.Contains(t, raw, `"monto":2500.5000`)
}
