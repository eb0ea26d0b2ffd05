// Package gearing estimates the tax impact of holding an investment property
// whose deductions may exceed its rental income.
package gearing

import (
	"fmt"

	"github.com/lachho/property-sub000/pkg/mathutil"
	"github.com/lachho/property-sub000/pkg/tax"
)

// PropertyType selects the depreciation schedule.
type PropertyType string

// Supported property types.
const (
	Apartment PropertyType = "Apartment"
	Townhouse PropertyType = "Townhouse"
	House     PropertyType = "House"
	DualKey   PropertyType = "Dual Key"
)

// Fixed assumptions applied to the purchase price.
const (
	RentalYield      = 0.025
	RunningCosts     = 0.015
	AssumedLVR       = 0.8
	AssumedRate      = 0.055
	ScheduleYears    = 10
	rentRoundingStep = 100
)

// depreciation holds the claimable percentage of price for each year of
// ownership.
var depreciation = map[PropertyType][ScheduleYears]float64{
	Apartment: {2.7, 2.2, 2.0, 1.8, 1.5, 1.4, 1.4, 1.3, 1.3, 1.4},
	Townhouse: {2.75, 2.35, 2.1, 2.0, 1.6, 1.45, 1.45, 1.5, 1.6, 1.35},
	House:     {2.45, 2.0, 1.7, 1.45, 1.45, 1.4, 1.35, 1.35, 1.35, 1.2},
	DualKey:   {2.45, 2.0, 1.7, 1.45, 1.45, 1.4, 1.35, 1.35, 1.35, 1.2},
}

// Valid reports whether the property type has a depreciation schedule.
func (p PropertyType) Valid() bool {
	_, ok := depreciation[p]
	return ok
}

// PropertyTypes lists the supported property types.
func PropertyTypes() []PropertyType {
	return []PropertyType{Apartment, Townhouse, House, DualKey}
}

// DepreciationSchedule returns the ten yearly depreciation percentages for a
// property type. An unknown type panics.
func DepreciationSchedule(p PropertyType) []float64 {
	rates, ok := depreciation[p]
	if !ok {
		panic(fmt.Sprintf("gearing: unknown property type %q", string(p)))
	}
	out := make([]float64, ScheduleYears)
	copy(out, rates[:])
	return out
}

// Input describes the property and the owner's position. OwnershipPercentage
// is 0-100 and DepreciationYear is 1-10.
type Input struct {
	PropertyType         PropertyType `json:"propertyType"`
	PropertyPrice        float64      `json:"propertyPrice"`
	OwnershipPercentage  float64      `json:"ownershipPercentage"`
	CurrentTaxableIncome float64      `json:"currentTaxableIncome"`
	DepreciationYear     int          `json:"depreciationYear"`
}

// Breakdown itemises the full-property rent and deductions before the
// ownership share is applied.
type Breakdown struct {
	WeeklyRent          float64 `json:"weeklyRent"`
	AnnualRent          float64 `json:"annualRent"`
	Depreciation        float64 `json:"depreciation"`
	OtherExpenses       float64 `json:"otherExpenses"`
	InterestExpense     float64 `json:"interestExpense"`
	TotalDeductions     float64 `json:"totalDeductions"`
	MarginalRateBefore  float64 `json:"marginalRateBefore"`
	MarginalRateAfter   float64 `json:"marginalRateAfter"`
	DepreciationPercent float64 `json:"depreciationPercent"`
}

// Result is the owner's tax position with and without the property. A
// negative TaxSavings means the property adds to the tax bill.
type Result struct {
	RentalIncome     float64   `json:"rentalIncome"`
	TotalIncome      float64   `json:"totalIncome"`
	RentalDeductions float64   `json:"rentalDeductions"`
	NewTaxableIncome float64   `json:"newTaxableIncome"`
	CurrentTax       float64   `json:"currentTax"`
	NewTax           float64   `json:"newTax"`
	TaxSavings       float64   `json:"taxSavings"`
	Breakdown        Breakdown `json:"breakdown"`
}

// Calculate returns the tax impact of the property for the given year of
// ownership.
func Calculate(in Input) Result {
	annualRent := mathutil.RoundTo(in.PropertyPrice*RentalYield, rentRoundingStep)
	percent := DepreciationSchedule(in.PropertyType)[in.DepreciationYear-1]

	b := Breakdown{
		AnnualRent:          annualRent,
		WeeklyRent:          mathutil.RoundWhole(annualRent / 52),
		DepreciationPercent: percent,
		Depreciation:        mathutil.RoundWhole(in.PropertyPrice * percent / 100),
		OtherExpenses:       mathutil.RoundWhole(in.PropertyPrice * RunningCosts),
		InterestExpense:     mathutil.RoundWhole(in.PropertyPrice * AssumedLVR * AssumedRate),
	}
	b.TotalDeductions = b.Depreciation + b.OtherExpenses + b.InterestExpense

	share := mathutil.PercentToFraction(in.OwnershipPercentage)
	rent := annualRent * share
	deductions := b.TotalDeductions * share
	newIncome := in.CurrentTaxableIncome + rent - deductions

	currentTax := tax.Calculate(in.CurrentTaxableIncome)
	newTax := tax.Calculate(newIncome)

	b.MarginalRateBefore = tax.MarginalRate(in.CurrentTaxableIncome)
	b.MarginalRateAfter = tax.MarginalRate(newIncome)

	return Result{
		RentalIncome:     rent,
		TotalIncome:      in.CurrentTaxableIncome + rent,
		RentalDeductions: deductions,
		NewTaxableIncome: newIncome,
		CurrentTax:       currentTax,
		NewTax:           newTax,
		TaxSavings:       currentTax - newTax,
		Breakdown:        b,
	}
}
