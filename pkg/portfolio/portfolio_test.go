package portfolio

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/lachho/property-sub000/pkg/growth"
	"github.com/lachho/property-sub000/pkg/loans"
	"github.com/lachho/property-sub000/pkg/projection"
)

func threeProperties() []Property {
	return []Property{
		{ID: "p1", Value: 500000, Tier: growth.Medium},
		{ID: "p2", Value: 600000, Tier: growth.Medium},
		{ID: "p3", Value: 750000, Tier: growth.Medium},
	}
}

func intPtr(v int) *int {
	return &v
}

func TestSimulateEmpty(t *testing.T) {
	if got := Simulate(nil, DefaultOptions()); len(got) != 0 {
		t.Errorf("Simulate(nil) returned %d snapshots, expected 0", len(got))
	}
}

func TestSimulateThreePropertyExample(t *testing.T) {
	result := SimulateDetailed(threeProperties(), DefaultOptions())

	if len(result.Years) != 31 {
		t.Fatalf("got %d snapshots, expected 31", len(result.Years))
	}

	// p1 alone releases 61,038 in year 6 (>= 60,000 deposit), so p2 lands in year 7.
	for _, snapshot := range result.Years {
		p2 := snapshot.Properties[1]
		if snapshot.Year < 7 && (p2.Value != 0 || p2.Debt != 0 || p2.Equity != 0) {
			t.Errorf("year %d: p2 = %+v before acquisition", snapshot.Year, p2)
		}
		if snapshot.Year == 7 && p2.Value != 600000 {
			t.Errorf("year 7: p2 value = %v, expected 600000", p2.Value)
		}
		p3 := snapshot.Properties[2]
		if snapshot.Year < 10 && p3.Value != 0 {
			t.Errorf("year %d: p3 value = %v before acquisition", snapshot.Year, p3.Value)
		}
		if snapshot.Year == 10 && p3.Value != 750000 {
			t.Errorf("year 10: p3 value = %v, expected 750000", p3.Value)
		}
	}

	if len(result.Acquisitions) != 2 {
		t.Fatalf("got %d acquisitions, expected 2", len(result.Acquisitions))
	}

	first := result.Acquisitions[0]
	if first.ID != "p2" || first.Year != 7 || first.DecidedInYear != 6 {
		t.Errorf("first acquisition = %+v, expected p2 in year 7", first)
	}
	if math.Abs(first.Deposit-60000) > 1e-6 || math.Abs(first.Debt-570000) > 1e-6 {
		t.Errorf("first acquisition deposit/debt = %v/%v, expected 60000/570000", first.Deposit, first.Debt)
	}
	if len(first.Draws) != 1 || first.Draws[0].FromID != "p1" || math.Abs(first.Draws[0].Amount-60000) > 1e-6 {
		t.Errorf("first acquisition draws = %+v, expected 60000 from p1", first.Draws)
	}

	second := result.Acquisitions[1]
	if second.ID != "p3" || second.Year != 10 {
		t.Errorf("second acquisition = %+v, expected p3 in year 10", second)
	}
	if len(second.Draws) != 1 || second.Draws[0].FromID != "p1" || math.Abs(second.Draws[0].Amount-75000) > 1e-6 {
		t.Errorf("second acquisition draws = %+v, expected 75000 from p1", second.Draws)
	}

	if got := result.Years[7].Properties[0].Debt; math.Abs(got-535000) > 1e-6 {
		t.Errorf("year 7 p1 debt = %v, expected 535000", got)
	}
	if got := result.Years[10].Properties[0].Debt; math.Abs(got-610000) > 1e-6 {
		t.Errorf("year 10 p1 debt = %v, expected 610000", got)
	}

	wantYears := []int{0, 7, 10}
	for i, p := range result.Properties {
		if p.AcquisitionYear == nil || *p.AcquisitionYear != wantYears[i] {
			t.Errorf("property %s acquisition year = %v, expected %d", p.ID, p.AcquisitionYear, wantYears[i])
		}
	}
}

func TestSimulateInvariants(t *testing.T) {
	props := append(threeProperties(),
		Property{ID: "p4", Value: 420000, Tier: growth.High},
		Property{ID: "p5", Value: 900000, Tier: growth.Low},
	)
	result := SimulateDetailed(props, DefaultOptions())

	for _, snapshot := range result.Years {
		if snapshot.TotalEquity != snapshot.TotalValue-snapshot.TotalDebt {
			t.Errorf("year %d: total equity %v != %v - %v", snapshot.Year, snapshot.TotalEquity, snapshot.TotalValue, snapshot.TotalDebt)
		}
		if len(snapshot.Properties) != len(props) {
			t.Fatalf("year %d: %d holdings, expected %d", snapshot.Year, len(snapshot.Properties), len(props))
		}

		var value, debt float64
		for i, h := range snapshot.Properties {
			if h.ID != props[i].ID {
				t.Errorf("year %d: holding %d is %s, expected %s", snapshot.Year, i, h.ID, props[i].ID)
			}
			if math.Abs(h.Equity-(h.Value-h.Debt)) > 1e-6 {
				t.Errorf("year %d: %s equity %v != %v - %v", snapshot.Year, h.ID, h.Equity, h.Value, h.Debt)
			}
			value += h.Value
			debt += h.Debt
		}
		if math.Abs(snapshot.TotalValue-value) > 0.5 || math.Abs(snapshot.TotalDebt-debt) > 0.5 {
			t.Errorf("year %d: totals %v/%v do not match holdings %v/%v", snapshot.Year, snapshot.TotalValue, snapshot.TotalDebt, value, debt)
		}
	}

	if len(result.Acquisitions) > len(props)-1 {
		t.Errorf("acquired %d properties from %d candidates", len(result.Acquisitions), len(props)-1)
	}
	seen := make(map[string]bool)
	for _, acq := range result.Acquisitions {
		if seen[acq.ID] {
			t.Errorf("property %s acquired twice", acq.ID)
		}
		seen[acq.ID] = true

		drawn := 0.0
		for _, d := range acq.Draws {
			drawn += d.Amount
		}
		if math.Abs(drawn-acq.Deposit) > 1e-6 {
			t.Errorf("acquisition of %s drew %v, expected deposit %v", acq.ID, drawn, acq.Deposit)
		}
	}
}

func TestSimulateAcquisitionYearNeverChanges(t *testing.T) {
	result := SimulateDetailed(threeProperties(), DefaultOptions())

	firstHeld := make(map[string]int)
	for _, snapshot := range result.Years {
		for _, h := range snapshot.Properties {
			if _, ok := firstHeld[h.ID]; !ok && h.Value > 0 {
				firstHeld[h.ID] = snapshot.Year
			}
			if start, ok := firstHeld[h.ID]; ok && snapshot.Year >= start && h.Value == 0 {
				t.Errorf("%s lost its holding in year %d", h.ID, snapshot.Year)
			}
		}
	}
	for _, p := range result.Properties {
		if got, ok := firstHeld[p.ID]; ok && (p.AcquisitionYear == nil || *p.AcquisitionYear != got) {
			t.Errorf("%s first held in year %d, reported %v", p.ID, got, p.AcquisitionYear)
		}
	}
}

func TestSimulateSinglePropertyMatchesProjector(t *testing.T) {
	// Values are multiples of 20 so the projector's cent-rounded year 0 is
	// also a whole number.
	for _, value := range []float64{640000, 523460, 1234560} {
		for _, tier := range growth.Tiers() {
			t.Run(fmt.Sprintf("%s/%.0f", tier, value), func(t *testing.T) {
				props := []Property{{ID: "only", Value: value, Tier: tier}}
				portfolio := Simulate(props, DefaultOptions())

				in := projection.DefaultInput(value, tier, loans.InterestOnly, 0.06)
				in.ApplyGuaranteeScheme = false
				single := projection.Project(in)

				if len(portfolio) != len(single) {
					t.Fatalf("portfolio has %d years, projector %d", len(portfolio), len(single))
				}
				for i := range single {
					if portfolio[i].TotalValue != single[i].PropertyValue ||
						portfolio[i].TotalDebt != single[i].Debt ||
						portfolio[i].TotalEquity != single[i].Equity {
						t.Errorf("year %d: portfolio %+v differs from projector %+v", i, portfolio[i], single[i])
					}
				}
			})
		}
	}
}

func TestSimulateNoReleasableEquity(t *testing.T) {
	opts := DefaultOptions()
	opts.RefinanceLimitFraction = 0
	result := SimulateDetailed(threeProperties(), opts)

	if len(result.Acquisitions) != 0 {
		t.Errorf("got %d acquisitions, expected none", len(result.Acquisitions))
	}
	for _, snapshot := range result.Years {
		for _, h := range snapshot.Properties[1:] {
			if h.Value != 0 || h.Debt != 0 || h.Equity != 0 {
				t.Errorf("year %d: %s = %+v, expected zeros", snapshot.Year, h.ID, h)
			}
		}
	}
	if result.Properties[1].AcquisitionYear != nil || result.Properties[2].AcquisitionYear != nil {
		t.Errorf("unacquired properties reported acquisition years")
	}
}

func TestSimulateRespectsPreMarkedAcquisition(t *testing.T) {
	props := threeProperties()
	props[1].AcquisitionYear = intPtr(0)

	result := SimulateDetailed(props, DefaultOptions())
	year0 := result.Years[0]

	if year0.Properties[0].Value != 0 {
		t.Errorf("p1 should not default to acquired when p2 is marked at year 0, got %+v", year0.Properties[0])
	}
	if year0.Properties[1].Value != 600000 || math.Abs(year0.Properties[1].Debt-570000) > 1e-6 {
		t.Errorf("p2 year 0 = %+v, expected value 600000 debt 570000", year0.Properties[1])
	}
	if len(result.Acquisitions) == 0 || result.Acquisitions[0].ID != "p1" {
		t.Errorf("expected p1 to be the next acquisition, got %+v", result.Acquisitions)
	}
}

func TestSimulateDoesNotMutateInput(t *testing.T) {
	props := threeProperties()
	before := threeProperties()
	Simulate(props, DefaultOptions())
	if !reflect.DeepEqual(props, before) {
		t.Errorf("Simulate() modified its input: %+v", props)
	}
}

func TestSimulateHorizonZero(t *testing.T) {
	opts := DefaultOptions()
	opts.HorizonYears = 0
	got := Simulate(threeProperties(), opts)
	if len(got) != 1 {
		t.Fatalf("got %d snapshots, expected 1", len(got))
	}
	if got[0].TotalValue != 500000 || got[0].TotalDebt != 475000 || got[0].TotalEquity != 25000 {
		t.Errorf("year 0 = %+v", got[0])
	}
}

func TestSimulateIsIdempotent(t *testing.T) {
	props := threeProperties()
	if !reflect.DeepEqual(SimulateDetailed(props, DefaultOptions()), SimulateDetailed(props, DefaultOptions())) {
		t.Errorf("SimulateDetailed() returned different results for identical input")
	}
}
