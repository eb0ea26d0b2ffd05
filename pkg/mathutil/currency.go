// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/lachho/property-sub000/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundWhole rounds a value to the nearest whole currency unit.
func RoundWhole(val float64) float64 {
	return math.Round(val)
}

// RoundTo rounds a value to the nearest multiple of step.
func RoundTo(val, step float64) float64 {
	if step <= 0 {
		return val
	}
	return math.Round(val/step) * step
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// PercentToFraction converts a 0-100 percentage into a 0-1 fraction.
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// FractionToPercent converts a 0-1 fraction into a 0-100 percentage.
func FractionToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
