package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriodBounds(t *testing.T) {
	p := NewPeriod(2025, 3)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), p.EndDate)
	assert.Equal(t, 31, p.DaysInMonth())

	assert.Equal(t, 29, NewPeriod(2024, 2).DaysInMonth())
	assert.Equal(t, 28, NewPeriod(2025, 2).DaysInMonth())
	assert.Equal(t, 30, NewPeriod(2025, 4).DaysInMonth())
	assert.Equal(t, 31, NewPeriod(2025, 12).DaysInMonth())
}

func TestPeriodContainsUsesCalendarDay(t *testing.T) {
	p := NewPeriod(2025, 3)
	assert.True(t, p.Contains(time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))

	// el día calendario se toma tal como viene, sin convertir zona horaria
	mx := time.FixedZone("CST", -6*3600)
	assert.True(t, p.Contains(time.Date(2025, 3, 31, 22, 0, 0, 0, mx)))
}

func TestParseDateIsUTC(t *testing.T) {
	d, err := ParseDate("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/03/2025")
	assert.Error(t, err)
}

func TestProductLineComputeAmount(t *testing.T) {
	l := ProductLine{}
	assert.False(t, l.HasData())
	l.Volume = mustDec("1000.5")
	l.Price = mustDec("23.15")
	l.ComputeAmount()
	assert.Equal(t, "23161.575", l.Amount.String())
	assert.True(t, l.HasData())
}

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
