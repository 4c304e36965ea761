package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedMarshalKeepsPlaces(t *testing.T) {
	out, err := json.Marshal(map[string]Fixed{
		"precio":  Four(decimal.NewFromFloat(19.5)),
		"importe": Two(decimal.RequireFromString("1950")),
		"cero":    Two(decimal.Zero),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"precio":19.5000,"importe":1950.00,"cero":0.00}`, string(out))
	assert.Contains(t, string(out), `19.5000`)
	assert.Contains(t, string(out), `1950.00`)
}

func TestFixedRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "2.35", Two(decimal.RequireFromString("2.345")).String())
	assert.Equal(t, "-2.35", Two(decimal.RequireFromString("-2.345")).String())
	assert.Equal(t, "0.3333", Four(decimal.NewFromInt(1).Div(decimal.NewFromInt(3))).String())
}

func TestFixedUnmarshal(t *testing.T) {
	var f Fixed
	require.NoError(t, json.Unmarshal([]byte(`12.3400`), &f))
	assert.Equal(t, int32(4), f.Places)
	assert.True(t, f.Value.Equal(decimal.RequireFromString("12.34")))

	require.NoError(t, json.Unmarshal([]byte(`"7"`), &f))
	assert.Equal(t, int32(0), f.Places)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
}

func TestRatioZeroDenominator(t *testing.T) {
	assert.True(t, Ratio(decimal.NewFromInt(10), decimal.Zero, 4).IsZero())
	assert.Equal(t, "19.5", Ratio(decimal.NewFromInt(1950), decimal.NewFromInt(100), 4).String())
}
