package services

import (
	"github.com/shopspring/decimal"
)

// Stamp duty brackets. The rate is picked by the gross amount and
// applied to the whole amount, in hundredth-of-amount steps; the tiers
// are not progressive.
var (
	stampTier1Limit = decimal.NewFromInt(30000)
	stampTier2Limit = decimal.NewFromInt(100000)

	stampTier1Rate = decimal.NewFromFloat(1.0)
	stampTier2Rate = decimal.NewFromFloat(0.5)
	stampTier3Rate = decimal.NewFromFloat(0.25)

	stampMinimum = decimal.NewFromFloat(5.0)

	hundred = decimal.NewFromInt(100)
)

// TaxCalculator computes VAT and stamp duty amounts
type TaxCalculator struct{}

// NewTaxCalculator creates a new tax calculator
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{}
}

// VAT returns the VAT amount for a base amount at the given percentage
// rate, rounded to 2 decimal places
func (c *TaxCalculator) VAT(baseAmount, rate float64) float64 {
	if baseAmount <= 0 || rate <= 0 {
		return 0
	}
	vat := decimal.NewFromFloat(baseAmount).
		Mul(decimal.NewFromFloat(rate)).
		Div(hundred).
		Round(2)
	result, _ := vat.Float64()
	return result
}

// StampDuty returns the stamp duty owed on a cash-settled gross amount.
// The amount is split into started blocks of 100, each block taxed at
// the single rate its total implies, with a floor of 5.00.
func (c *TaxCalculator) StampDuty(grossAmount float64) float64 {
	if grossAmount <= 0 {
		return 0
	}

	gross := decimal.NewFromFloat(grossAmount)
	blocks := gross.Div(hundred).Ceil()

	var rate decimal.Decimal
	switch {
	case gross.LessThanOrEqual(stampTier1Limit):
		rate = stampTier1Rate
	case gross.LessThanOrEqual(stampTier2Limit):
		rate = stampTier2Rate
	default:
		rate = stampTier3Rate
	}

	duty := blocks.Mul(rate).Round(2)
	if duty.LessThan(stampMinimum) {
		duty = stampMinimum
	}

	result, _ := duty.Float64()
	return result
}

// GrossUp returns base, VAT and gross for a base amount when VAT
// applies, or the base carried through untouched when it does not.
func (c *TaxCalculator) GrossUp(baseAmount, rate float64, vatApplicable bool) (base, vat, gross float64) {
	base = round2(baseAmount)
	if !vatApplicable {
		return base, 0, base
	}
	vat = c.VAT(baseAmount, rate)
	gross = round2(base + vat)
	return base, vat, gross
}

func round2(v float64) float64 {
	result, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return result
}
