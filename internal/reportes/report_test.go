package reportes

import (
	"testing"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildReport(t *testing.T) {
	r, err := buildReport(ReportRequest{
		StationID: 4,
		Date:      "2024-04-15",
		Premium:   &LineaRequest{Volume: dec("1000"), Price: dec("23.50"), ShrinkageVolume: dec("2"), ShrinkageAmount: dec("47")},
		Magna:     &LineaRequest{Volume: dec("800"), Price: dec("21.90")},
		Oils:      dec("150"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReportPending, r.Status)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "23500", r.Premium.Amount.String())
	assert.Equal(t, "17520", r.Magna.Amount.String())
	assert.True(t, r.Diesel.Volume.IsZero())
	assert.False(t, r.Diesel.HasData())
	assert.Equal(t, "150", r.OilsAmount.String())
}

func TestBuildReportRejects(t *testing.T) {
	cases := []struct {
		name string
		body ReportRequest
	}{
		{"fecha", ReportRequest{StationID: 1, Date: "15/04/2024"}},
		{"litros negativos", ReportRequest{StationID: 1, Date: "2024-04-15", Diesel: &LineaRequest{Volume: dec("-1")}}},
		{"aceites negativos", ReportRequest{StationID: 1, Date: "2024-04-15", Oils: dec("-10")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildReport(tc.body)
			assert.Error(t, err)
		})
	}
}

func TestApplyReview(t *testing.T) {
	at := time.Date(2024, 4, 16, 9, 0, 0, 0, time.UTC)

	r := models.DailyReport{Status: models.ReportPending}
	require.NoError(t, applyReview(&r, models.ReportApproved, 9, at))
	assert.Equal(t, models.ReportApproved, r.Status)
	require.NotNil(t, r.ReviewedBy)
	assert.Equal(t, uint(9), *r.ReviewedBy)
	assert.Equal(t, at, *r.ReviewedAt)

	assert.Error(t, applyReview(&r, models.ReportRejected, 9, at), "ya revisado")

	p := models.DailyReport{Status: models.ReportPending}
	assert.Error(t, applyReview(&p, models.ReportPending, 9, at))
	assert.Equal(t, models.ReportPending, p.Status)
}

func TestNewReportResponse(t *testing.T) {
	at := time.Date(2024, 4, 16, 9, 0, 0, 0, time.UTC)
	reviewer := uint(3)
	resp := NewReportResponse(models.DailyReport{
		ID:         7,
		StationID:  4,
		Station:    models.Station{Name: "Centro"},
		Date:       time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		Status:     models.ReportApproved,
		Premium:    models.ProductLine{Volume: dec("10"), Price: dec("23.5"), Amount: dec("235")},
		ReviewedBy: &reviewer,
		ReviewedAt: &at,
	})
	assert.Equal(t, "2024-04-15", resp.Date)
	assert.Equal(t, "Centro", resp.StationName)
	assert.Equal(t, "235.0000", resp.Premium.Amount.String())
	require.NotNil(t, resp.ReviewedAt)
	assert.Equal(t, "2024-04-16T09:00:00Z", *resp.ReviewedAt)
}
