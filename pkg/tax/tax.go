// Package tax implements the progressive resident income tax schedule used by
// the negative gearing calculator.
package tax

import "github.com/shopspring/decimal"

// Bracket is one marginal band of the schedule. Income above Threshold is
// taxed at Rate on top of Base.
type Bracket struct {
	Threshold decimal.Decimal
	Base      decimal.Decimal
	Rate      decimal.Decimal
}

// brackets holds the 2023-24 resident schedule, ordered by threshold.
var brackets = []Bracket{
	{Threshold: decimal.Zero, Base: decimal.Zero, Rate: decimal.Zero},
	{Threshold: decimal.NewFromInt(18200), Base: decimal.Zero, Rate: decimal.RequireFromString("0.16")},
	{Threshold: decimal.NewFromInt(45000), Base: decimal.NewFromInt(4288), Rate: decimal.RequireFromString("0.30")},
	{Threshold: decimal.NewFromInt(135000), Base: decimal.NewFromInt(31288), Rate: decimal.RequireFromString("0.37")},
	{Threshold: decimal.NewFromInt(190000), Base: decimal.NewFromInt(51638), Rate: decimal.RequireFromString("0.45")},
}

var decimalHundred = decimal.NewFromInt(100)

// Brackets returns a copy of the schedule.
func Brackets() []Bracket {
	out := make([]Bracket, len(brackets))
	copy(out, brackets)
	return out
}

// bracketFor returns the band the income falls in. Thresholds are exclusive:
// income exactly on a threshold stays in the lower band.
func bracketFor(income decimal.Decimal) Bracket {
	selected := brackets[0]
	for _, b := range brackets[1:] {
		if income.GreaterThan(b.Threshold) {
			selected = b
		}
	}
	return selected
}

// Calculate returns the tax owed on a taxable income. Non-positive income owes
// nothing.
func Calculate(income float64) float64 {
	if income <= 0 {
		return 0
	}
	in := decimal.NewFromFloat(income)
	b := bracketFor(in)
	return b.Base.Add(in.Sub(b.Threshold).Mul(b.Rate)).InexactFloat64()
}

// MarginalRate returns the marginal rate applying to the next dollar earned, as
// a percentage (e.g. 37).
func MarginalRate(income float64) float64 {
	if income <= 0 {
		return 0
	}
	return bracketFor(decimal.NewFromFloat(income)).Rate.Mul(decimalHundred).InexactFloat64()
}

// EffectiveRate returns total tax over income as a percentage.
func EffectiveRate(income float64) float64 {
	if income <= 0 {
		return 0
	}
	return Calculate(income) / income * 100
}
