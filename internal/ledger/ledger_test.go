package ledger

import (
	"testing"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 4, 20, 23, 30, 0, 0, time.FixedZone("CST", -6*3600))

func uptr(v uint) *uint { return &v }

func TestBuildDelivery(t *testing.T) {
	d, err := buildDelivery(CreateDeliveryRequest{
		StationID:   uptr(4),
		Type:        models.DeliveryStationToZone,
		Date:        "2024-04-15",
		Amount:      decimal.RequireFromString("1500.50"),
		Description: "  corte vespertino ",
	}, 2, now)
	require.NoError(t, err)
	assert.Equal(t, uint(2), d.ZoneID)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Equal(t, "corte vespertino", d.Description)

	// sin fecha: el día UTC actual
	d, err = buildDelivery(CreateDeliveryRequest{Type: models.DeliveryZoneToDirection, Amount: decimal.NewFromInt(10)}, 2, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC), d.Date)
}

func TestBuildDeliveryRejects(t *testing.T) {
	ten := decimal.NewFromInt(10)
	cases := []struct {
		name string
		body CreateDeliveryRequest
	}{
		{"tipo", CreateDeliveryRequest{Type: "banco", Amount: ten}},
		{"estación faltante", CreateDeliveryRequest{Type: models.DeliveryStationToZone, Amount: ten}},
		{"estación sobrante", CreateDeliveryRequest{Type: models.DeliveryZoneToDirection, StationID: uptr(1), Amount: ten}},
		{"monto cero", CreateDeliveryRequest{Type: models.DeliveryZoneToDirection}},
		{"monto negativo", CreateDeliveryRequest{Type: models.DeliveryZoneToDirection, Amount: ten.Neg()}},
		{"decimales", CreateDeliveryRequest{Type: models.DeliveryZoneToDirection, Amount: decimal.RequireFromString("1.00001")}},
		{"fecha", CreateDeliveryRequest{Type: models.DeliveryZoneToDirection, Amount: ten, Date: "20/04/2024"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildDelivery(tc.body, 1, now)
			assert.Error(t, err)
		})
	}
}

func TestBuildExpense(t *testing.T) {
	e, err := buildExpense(CreateExpenseRequest{
		StationID: uptr(3),
		Category:  " mantenimiento ",
		Date:      "2024-04-02",
		Amount:    decimal.RequireFromString("320"),
	}, 5, now)
	require.NoError(t, err)
	assert.Equal(t, "mantenimiento", e.Category)
	assert.Equal(t, uint(5), e.ZoneID)
	require.NotNil(t, e.StationID)
	assert.Equal(t, uint(3), *e.StationID)

	_, err = buildExpense(CreateExpenseRequest{Category: "  ", Amount: decimal.NewFromInt(1)}, 5, now)
	assert.Error(t, err)
	_, err = buildExpense(CreateExpenseRequest{Category: "luz"}, 5, now)
	assert.Error(t, err)
}

func TestResponses(t *testing.T) {
	d := NewDeliveryResponse(models.Delivery{ID: 1, ZoneID: 2, Type: models.DeliveryZoneToDirection, Date: time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("99.5")})
	assert.Equal(t, "2024-04-03", d.Date)
	assert.Equal(t, "99.50", d.Amount.String())

	e := NewExpenseResponse(models.Expense{ID: 1, Category: "luz", Date: time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(5)})
	assert.Equal(t, "5.00", e.Amount.String())
}
