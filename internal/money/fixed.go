// Package money serializa importes y volúmenes con una cantidad fija de decimales.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// SummaryPlaces: resúmenes mensuales.
	SummaryPlaces int32 = 2
	// DetailPlaces: conciliación y detalle de merma.
	DetailPlaces int32 = 4
)

// Fixed es un decimal que siempre se escribe en JSON como número con Places decimales.
type Fixed struct {
	Value  decimal.Decimal
	Places int32
}

func New(d decimal.Decimal, places int32) Fixed {
	return Fixed{Value: d.Round(places), Places: places}
}

// Two redondea a 2 decimales.
func Two(d decimal.Decimal) Fixed { return New(d, SummaryPlaces) }

// Four redondea a 4 decimales.
func Four(d decimal.Decimal) Fixed { return New(d, DetailPlaces) }

func (f Fixed) Decimal() decimal.Decimal { return f.Value }

func (f Fixed) String() string { return f.Value.StringFixed(f.Places) }

func (f Fixed) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fixed) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = Fixed{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: valor inválido %q: %w", s, err)
	}
	var places int32
	if i := strings.IndexByte(s, '.'); i >= 0 {
		places = int32(len(s) - i - 1)
	}
	*f = Fixed{Value: d, Places: places}
	return nil
}

// Ratio devuelve num/den redondeado a places, o cero cuando den es cero.
func Ratio(num, den decimal.Decimal, places int32) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, places)
}
