package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_DanishVAT(t *testing.T) {
	p, err := Price(3, 349, 0.25)
	require.NoError(t, err)

	assert.Equal(t, 1047.0, p.Subtotal)
	assert.Equal(t, 261.75, p.VATAmount)
	assert.Equal(t, 1308.75, p.Total)
}

func TestPrice_TotalMatchesFormula(t *testing.T) {
	vat := 0.25
	for _, h := range []float64{0.5, 1, 2.25, 3, 4, 7.75, 12} {
		for _, r := range []float64{1, 99.5, 349, 420} {
			p, err := Price(h, r, vat)
			require.NoError(t, err)
			assert.InDelta(t, h*r*(1+vat), p.Total, 1e-9)
			assert.InDelta(t, p.Total-p.Subtotal, p.VATAmount, 1e-9)
		}
	}
}

func TestPrice_RejectsCallerErrors(t *testing.T) {
	bad := []struct {
		hours, rate float64
	}{
		{0, 349},
		{-1, 349},
		{math.NaN(), 349},
		{math.Inf(1), 349},
		{3, -1},
	}
	for _, b := range bad {
		_, err := Price(b.hours, b.rate, 0.25)
		assert.ErrorIs(t, err, ErrInvalidPriceInput)
	}
}

func TestPriceCalculator(t *testing.T) {
	calc := NewPriceCalculator(349, 0.25)
	p, err := calc.Price(4)
	require.NoError(t, err)
	assert.Equal(t, 1396.0, p.Subtotal)
	assert.Equal(t, 1745.0, p.Total)
}
