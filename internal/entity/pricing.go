package entity

import "math"

type PriceBreakdown struct {
	Hours      float64 `json:"hours"`
	HourlyRate float64 `json:"hourly_rate"`
	Subtotal   float64 `json:"subtotal"`
	VATAmount  float64 `json:"vat_amount"`
	Total      float64 `json:"total"`
}

// Price computes subtotal = hours*rate, vat = subtotal*vatRate, total = subtotal+vat.
func Price(hours, hourlyRate, vatRate float64) (PriceBreakdown, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return PriceBreakdown{}, ErrInvalidPriceInput
	}
	if math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) || hourlyRate < 0 {
		return PriceBreakdown{}, ErrInvalidPriceInput
	}
	if math.IsNaN(vatRate) || vatRate < 0 {
		return PriceBreakdown{}, ErrInvalidPriceInput
	}

	subtotal := hours * hourlyRate
	vat := subtotal * vatRate
	return PriceBreakdown{
		Hours:      hours,
		HourlyRate: hourlyRate,
		Subtotal:   subtotal,
		VATAmount:  vat,
		Total:      subtotal + vat,
	}, nil
}

type PriceCalculator struct {
	HourlyRate float64
	VATRate    float64
}

func NewPriceCalculator(hourlyRate, vatRate float64) PriceCalculator {
	return PriceCalculator{HourlyRate: hourlyRate, VATRate: vatRate}
}

func (c PriceCalculator) Price(hours float64) (PriceBreakdown, error) {
	return Price(hours, c.HourlyRate, c.VATRate)
}
