// Package growth maps capital growth tiers to fixed annual compounding rates.
package growth

import "fmt"

// Tier is a categorical annual capital growth assumption.
type Tier string

// Supported growth tiers.
const (
	Low    Tier = "low"
	Medium Tier = "medium"
	High   Tier = "high"
)

var rates = map[Tier]float64{
	Low:    0.03,
	Medium: 0.05,
	High:   0.07,
}

// Rate returns the annual growth rate for a tier as a fraction. An unknown
// tier is a programmer error and panics; callers validate tiers first.
func Rate(tier Tier) float64 {
	rate, ok := rates[tier]
	if !ok {
		panic(fmt.Sprintf("growth: unknown tier %q", string(tier)))
	}
	return rate
}

// Valid reports whether the tier is one of the supported tiers.
func (t Tier) Valid() bool {
	_, ok := rates[t]
	return ok
}

// Tiers lists the supported tiers from lowest to highest growth.
func Tiers() []Tier {
	return []Tier{Low, Medium, High}
}
