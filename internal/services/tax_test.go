package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVAT(t *testing.T) {
	taxes := NewTaxCalculator()

	assert.Equal(t, 190.0, taxes.VAT(1000, 19))
	assert.Equal(t, 90.0, taxes.VAT(1000, 9))
	assert.Equal(t, 19.95, taxes.VAT(105, 19))

	// no VAT on zero or negative amounts or rates
	assert.Equal(t, 0.0, taxes.VAT(0, 19))
	assert.Equal(t, 0.0, taxes.VAT(-500, 19))
	assert.Equal(t, 0.0, taxes.VAT(1000, 0))
}

func TestStampDutyTiers(t *testing.T) {
	taxes := NewTaxCalculator()

	// tier 1: 1.00 per started block of 100 up to 30000
	assert.Equal(t, 300.0, taxes.StampDuty(30000))
	assert.Equal(t, 100.0, taxes.StampDuty(10000))
}

func TestStampDutyStartedBlock(t *testing.T) {
	taxes := NewTaxCalculator()

	// 101 spans two blocks of 100
	assert.Equal(t, 5.0, taxes.StampDuty(101)) // 2 blocks * 1.0, floored at 5
	assert.Equal(t, 7.0, taxes.StampDuty(650)) // 7 blocks * 1.0
}

func TestStampDutyTierSelection(t *testing.T) {
	taxes := NewTaxCalculator()

	// the tier is picked by the whole amount, not progressively
	assert.Equal(t, 150.5, taxes.StampDuty(30010))  // 301 blocks * 0.5
	assert.Equal(t, 500.0, taxes.StampDuty(100000)) // 1000 blocks * 0.5
	assert.Equal(t, 375.0, taxes.StampDuty(150000)) // 1500 blocks * 0.25
}

func TestStampDutyMinimum(t *testing.T) {
	taxes := NewTaxCalculator()

	assert.Equal(t, 5.0, taxes.StampDuty(100)) // 1 block * 1.0, floored at 5
	assert.Equal(t, 5.0, taxes.StampDuty(1))
	assert.Equal(t, 0.0, taxes.StampDuty(0))
	assert.Equal(t, 0.0, taxes.StampDuty(-50))
}

func TestGrossUp(t *testing.T) {
	taxes := NewTaxCalculator()

	base, vat, gross := taxes.GrossUp(1000, 19, true)
	assert.Equal(t, 1000.0, base)
	assert.Equal(t, 190.0, vat)
	assert.Equal(t, 1190.0, gross)

	base, vat, gross = taxes.GrossUp(1000, 19, false)
	assert.Equal(t, 1000.0, base)
	assert.Equal(t, 0.0, vat)
	assert.Equal(t, 1000.0, gross)
}
