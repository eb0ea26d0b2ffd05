package gearing

import (
	"math"
	"testing"
)

const tolerance = 0.01

func TestCalculate(t *testing.T) {
	tests := []struct {
		name           string
		input          Input
		rent           float64
		deductions     float64
		newIncome      float64
		currentTax     float64
		newTax         float64
		savings        float64
		marginalBefore float64
		marginalAfter  float64
	}{
		{
			name: "house full ownership year one",
			input: Input{
				PropertyType:         House,
				PropertyPrice:        600000,
				OwnershipPercentage:  100,
				CurrentTaxableIncome: 77000,
				DepreciationYear:     1,
			},
			rent:           15000,
			deductions:     50100,
			newIncome:      41900,
			currentTax:     13888,
			newTax:         3792,
			savings:        10096,
			marginalBefore: 30,
			marginalAfter:  16,
		},
		{
			name: "half ownership",
			input: Input{
				PropertyType:         House,
				PropertyPrice:        600000,
				OwnershipPercentage:  50,
				CurrentTaxableIncome: 77000,
				DepreciationYear:     1,
			},
			rent:           7500,
			deductions:     25050,
			newIncome:      59450,
			currentTax:     13888,
			newTax:         8623,
			savings:        5265,
			marginalBefore: 30,
			marginalAfter:  30,
		},
		{
			name: "no ownership leaves tax unchanged",
			input: Input{
				PropertyType:         Apartment,
				PropertyPrice:        500000,
				OwnershipPercentage:  0,
				CurrentTaxableIncome: 100000,
				DepreciationYear:     3,
			},
			rent:           0,
			deductions:     0,
			newIncome:      100000,
			currentTax:     20788,
			newTax:         20788,
			savings:        0,
			marginalBefore: 30,
			marginalAfter:  30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.input)
			checks := []struct {
				field         string
				got, expected float64
			}{
				{"RentalIncome", got.RentalIncome, tt.rent},
				{"RentalDeductions", got.RentalDeductions, tt.deductions},
				{"NewTaxableIncome", got.NewTaxableIncome, tt.newIncome},
				{"CurrentTax", got.CurrentTax, tt.currentTax},
				{"NewTax", got.NewTax, tt.newTax},
				{"TaxSavings", got.TaxSavings, tt.savings},
				{"MarginalRateBefore", got.Breakdown.MarginalRateBefore, tt.marginalBefore},
				{"MarginalRateAfter", got.Breakdown.MarginalRateAfter, tt.marginalAfter},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.expected) > tolerance {
					t.Errorf("Calculate().%s = %v, expected %v", c.field, c.got, c.expected)
				}
			}
			if got.TotalIncome != tt.input.CurrentTaxableIncome+got.RentalIncome {
				t.Errorf("Calculate().TotalIncome = %v, expected %v", got.TotalIncome, tt.input.CurrentTaxableIncome+got.RentalIncome)
			}
		})
	}
}

func TestCalculateBreakdown(t *testing.T) {
	got := Calculate(Input{
		PropertyType:         House,
		PropertyPrice:        600000,
		OwnershipPercentage:  100,
		CurrentTaxableIncome: 77000,
		DepreciationYear:     1,
	}).Breakdown

	expected := Breakdown{
		WeeklyRent:          288,
		AnnualRent:          15000,
		Depreciation:        14700,
		OtherExpenses:       9000,
		InterestExpense:     26400,
		TotalDeductions:     50100,
		MarginalRateBefore:  30,
		MarginalRateAfter:   16,
		DepreciationPercent: 2.45,
	}
	if got != expected {
		t.Errorf("Calculate().Breakdown = %+v, expected %+v", got, expected)
	}
}

func TestCalculateRentRoundsToHundred(t *testing.T) {
	got := Calculate(Input{
		PropertyType:        Townhouse,
		PropertyPrice:       523456,
		OwnershipPercentage: 100,
		DepreciationYear:    10,
	})
	if got.Breakdown.AnnualRent != 13100 {
		t.Errorf("AnnualRent = %v, expected 13100", got.Breakdown.AnnualRent)
	}
	if got.Breakdown.WeeklyRent != 252 {
		t.Errorf("WeeklyRent = %v, expected 252", got.Breakdown.WeeklyRent)
	}
}

func TestCalculateInsufficientDeductions(t *testing.T) {
	// Fixed ratios always produce a rental loss; with no other income tax stays at zero.
	got := Calculate(Input{
		PropertyType:         Apartment,
		PropertyPrice:        400000,
		OwnershipPercentage:  100,
		CurrentTaxableIncome: 0,
		DepreciationYear:     5,
	})
	if got.CurrentTax != 0 || got.NewTax != 0 || got.TaxSavings != 0 {
		t.Errorf("Calculate() = %+v, expected zero tax either way", got)
	}
	if got.NewTaxableIncome >= 0 {
		t.Errorf("NewTaxableIncome = %v, expected a loss", got.NewTaxableIncome)
	}
}

func TestDepreciationSchedule(t *testing.T) {
	for _, p := range PropertyTypes() {
		t.Run(string(p), func(t *testing.T) {
			schedule := DepreciationSchedule(p)
			if len(schedule) != ScheduleYears {
				t.Fatalf("DepreciationSchedule() returned %d years, expected %d", len(schedule), ScheduleYears)
			}
			schedule[0] = 99
			if DepreciationSchedule(p)[0] == 99 {
				t.Errorf("DepreciationSchedule() exposed the underlying table")
			}
		})
	}

	if DepreciationSchedule(DualKey)[3] != DepreciationSchedule(House)[3] {
		t.Errorf("dual key schedule should match house")
	}
}

func TestDepreciationScheduleUnknownTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("DepreciationSchedule() did not panic for unknown type")
		}
	}()
	DepreciationSchedule("Castle")
}

func TestPropertyTypeValid(t *testing.T) {
	if !DualKey.Valid() {
		t.Errorf("DualKey.Valid() = false, expected true")
	}
	if PropertyType("house").Valid() {
		t.Errorf("lowercase house should not be valid")
	}
}
