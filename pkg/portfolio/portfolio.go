// Package portfolio simulates a multi-property portfolio in which new
// properties are acquired by releasing equity from the ones already held.
//
// Every acquired loan is modelled as interest-only: debt is fixed at
// acquisition and only grows when equity is drawn to fund a later deposit.
// Each year, after the snapshot is taken, the next property in input order is
// acquired in the following year if the releasable equity across the holdings
// covers its deposit. The deposit is drawn from holdings in input order.
package portfolio

import (
	"math"

	"github.com/lachho/property-sub000/pkg/constants"
	"github.com/lachho/property-sub000/pkg/growth"
	"github.com/lachho/property-sub000/pkg/mathutil"
)

// Property is a candidate holding. AcquisitionYear is nil until the property
// is acquired.
type Property struct {
	ID              string      `json:"id"`
	Value           float64     `json:"value"`
	Tier            growth.Tier `json:"tier"`
	AcquisitionYear *int        `json:"acquisitionYear,omitempty"`
}

// Options holds the simulation horizon and the lending assumptions, all as
// fractions of a property's value.
type Options struct {
	HorizonYears           int     `json:"horizonYears"`
	DepositFraction        float64 `json:"depositFraction"`
	FeesFraction           float64 `json:"feesFraction"`
	RefinanceLimitFraction float64 `json:"refinanceLimitFraction"`
}

// DefaultOptions returns a 30 year horizon with a 10% deposit, 5% acquisition
// fees and an 80% refinance limit.
func DefaultOptions() Options {
	return Options{
		HorizonYears:           constants.DefaultHorizonYears,
		DepositFraction:        0.10,
		FeesFraction:           0.05,
		RefinanceLimitFraction: 0.80,
	}
}

// Holding is one property's position in a given year. Properties not yet
// acquired report zeros.
type Holding struct {
	ID     string  `json:"id"`
	Value  float64 `json:"value"`
	Debt   float64 `json:"debt"`
	Equity float64 `json:"equity"`
}

// YearSnapshot is the portfolio at the end of a year. Totals are rounded to
// the nearest currency unit and TotalEquity equals TotalValue minus TotalDebt.
// Properties preserves the input order.
type YearSnapshot struct {
	Year        int       `json:"year"`
	TotalValue  float64   `json:"totalValue"`
	TotalDebt   float64   `json:"totalDebt"`
	TotalEquity float64   `json:"totalEquity"`
	Properties  []Holding `json:"properties"`
}

// Draw is equity released from one holding towards a deposit.
type Draw struct {
	FromID string  `json:"fromId"`
	Amount float64 `json:"amount"`
}

// Acquisition records a property bought through refinancing.
type Acquisition struct {
	ID            string  `json:"id"`
	Year          int     `json:"year"`
	Deposit       float64 `json:"deposit"`
	Debt          float64 `json:"debt"`
	Releasable    float64 `json:"releasable"`
	Draws         []Draw  `json:"draws"`
	DecidedInYear int     `json:"decidedInYear"`
}

// Result is the full outcome of a simulation. Properties is a copy of the
// input with acquisition years filled in.
type Result struct {
	Years        []YearSnapshot `json:"years"`
	Acquisitions []Acquisition  `json:"acquisitions"`
	Properties   []Property     `json:"properties"`
}

type holding struct {
	Property
	held     bool
	acquired int
	debt     float64
	value    float64
}

func (h *holding) owned(year int) bool {
	return h.held && h.acquired <= year
}

func acquisitionDebt(value float64, opts Options) float64 {
	return value*(1-opts.DepositFraction) + value*opts.FeesFraction
}

// Simulate runs the portfolio over the horizon and returns one snapshot per
// year, 0 through HorizonYears.
func Simulate(properties []Property, opts Options) []YearSnapshot {
	return SimulateDetailed(properties, opts).Years
}

// SimulateDetailed is Simulate plus the acquisitions it made. The input slice
// is not modified.
func SimulateDetailed(properties []Property, opts Options) Result {
	if len(properties) == 0 {
		return Result{}
	}

	holdings := make([]holding, len(properties))
	anyAtStart := false
	for i, p := range properties {
		holdings[i].Property = p
		holdings[i].AcquisitionYear = nil
		if p.AcquisitionYear != nil {
			holdings[i].held = true
			holdings[i].acquired = *p.AcquisitionYear
			if *p.AcquisitionYear == 0 {
				anyAtStart = true
			}
		}
	}
	if !anyAtStart {
		holdings[0].held = true
		holdings[0].acquired = 0
	}
	for i := range holdings {
		if holdings[i].held {
			holdings[i].debt = acquisitionDebt(holdings[i].Value, opts)
		}
	}

	result := Result{Years: make([]YearSnapshot, 0, opts.HorizonYears+1)}
	for year := 0; year <= opts.HorizonYears; year++ {
		snapshot := takeSnapshot(holdings, year)
		result.Years = append(result.Years, snapshot)

		if year > 0 {
			if acq, ok := tryAcquire(holdings, snapshot.Properties, year, opts); ok {
				result.Acquisitions = append(result.Acquisitions, acq)
			}
		}
	}

	result.Properties = make([]Property, len(holdings))
	for i := range holdings {
		p := holdings[i].Property
		if holdings[i].held {
			acquired := holdings[i].acquired
			p.AcquisitionYear = &acquired
		}
		result.Properties[i] = p
	}

	return result
}

// takeSnapshot grows every owned holding by one year of its tier's rate and
// records the positions. Values compound by repeated multiplication, as the
// single property projector does, so a lone holding matches it exactly.
// Years must be visited in order.
func takeSnapshot(holdings []holding, year int) YearSnapshot {
	snapshot := YearSnapshot{Year: year, Properties: make([]Holding, len(holdings))}

	var totalValue, totalDebt float64
	for i := range holdings {
		h := &holdings[i]
		position := Holding{ID: h.ID}
		if h.owned(year) {
			if year == h.acquired {
				h.value = h.Value
			} else {
				h.value *= 1 + growth.Rate(h.Tier)
			}
			value := h.value
			position.Value = value
			position.Debt = h.debt
			position.Equity = value - h.debt
			totalValue += value
			totalDebt += h.debt
		}
		snapshot.Properties[i] = position
	}

	snapshot.TotalValue = mathutil.RoundWhole(totalValue)
	snapshot.TotalDebt = mathutil.RoundWhole(totalDebt)
	snapshot.TotalEquity = snapshot.TotalValue - snapshot.TotalDebt
	return snapshot
}

// releasable is the equity a holding can release without exceeding the
// refinance limit.
func releasable(position Holding, opts Options) float64 {
	return position.Value*opts.RefinanceLimitFraction - position.Debt
}

// tryAcquire acquires the next unheld property in input order, effective the
// following year, when this year's releasable equity covers its deposit.
func tryAcquire(holdings []holding, positions []Holding, year int, opts Options) (Acquisition, bool) {
	next := -1
	for i := range holdings {
		if !holdings[i].held {
			next = i
			break
		}
	}
	if next == -1 {
		return Acquisition{}, false
	}

	available := 0.0
	for i := range holdings {
		if i == next || !holdings[i].owned(year) {
			continue
		}
		if amount := releasable(positions[i], opts); amount > 0 {
			available += amount
		}
	}

	target := &holdings[next]
	deposit := target.Value * opts.DepositFraction
	if available < deposit {
		return Acquisition{}, false
	}

	target.held = true
	target.acquired = year + 1
	target.debt = acquisitionDebt(target.Value, opts)

	acq := Acquisition{
		ID:            target.ID,
		Year:          target.acquired,
		Deposit:       deposit,
		Debt:          target.debt,
		Releasable:    available,
		DecidedInYear: year,
	}

	remaining := deposit
	for i := range holdings {
		if remaining <= 0 {
			break
		}
		if i == next || !holdings[i].owned(year) {
			continue
		}
		amount := math.Min(releasable(positions[i], opts), remaining)
		if amount > 0 {
			holdings[i].debt += amount
			remaining -= amount
			acq.Draws = append(acq.Draws, Draw{FromID: holdings[i].ID, Amount: amount})
		}
	}

	return acq, true
}
