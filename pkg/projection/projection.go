// Package projection projects a single property's value, debt and equity year
// by year under a chosen loan structure.
package projection

import (
	"math"

	"github.com/lachho/property-sub000/pkg/constants"
	"github.com/lachho/property-sub000/pkg/growth"
	"github.com/lachho/property-sub000/pkg/loans"
	"github.com/lachho/property-sub000/pkg/mathutil"
)

const (
	// DepositFraction is the deposit paid up front (a 95% LVR loan).
	DepositFraction = 0.05

	// GuaranteeFraction is the share of the original value written off the
	// debt in year 1 when the home guarantee scheme applies.
	GuaranteeFraction = 0.15
)

// YearSnapshot is the state of a property at the end of a year. Equity always
// equals PropertyValue minus Debt.
type YearSnapshot struct {
	Year          int     `json:"year"`
	PropertyValue float64 `json:"propertyValue"`
	Debt          float64 `json:"debt"`
	Equity        float64 `json:"equity"`
}

// Input holds the parameters of a projection. AnnualInterestRate is a
// fraction.
type Input struct {
	PropertyValue        float64
	Tier                 growth.Tier
	LoanType             loans.LoanType
	AnnualInterestRate   float64
	HorizonYears         int
	ApplyGuaranteeScheme bool
}

// DefaultInput returns an Input with the default horizon and the guarantee
// scheme enabled.
func DefaultInput(propertyValue float64, tier growth.Tier, loanType loans.LoanType, annualInterestRate float64) Input {
	return Input{
		PropertyValue:        propertyValue,
		Tier:                 tier,
		LoanType:             loanType,
		AnnualInterestRate:   annualInterestRate,
		HorizonYears:         constants.DefaultHorizonYears,
		ApplyGuaranteeScheme: true,
	}
}

// Project returns HorizonYears+1 snapshots, one per year starting at year 0.
func Project(in Input) []YearSnapshot {
	snapshots := make([]YearSnapshot, 0, in.HorizonYears+1)

	deposit := in.PropertyValue * DepositFraction
	debt := in.PropertyValue - deposit
	value := in.PropertyValue

	openingValue := mathutil.Round(value)
	openingDebt := mathutil.Round(debt)
	snapshots = append(snapshots, YearSnapshot{
		Year:          0,
		PropertyValue: openingValue,
		Debt:          openingDebt,
		Equity:        openingValue - openingDebt,
	})
	if in.HorizonYears <= 0 {
		return snapshots
	}

	rate := growth.Rate(in.Tier)

	// The repayment is fixed on the opening loan and full horizon, even after
	// the guarantee write-down.
	var monthlyPayment float64
	if in.LoanType == loans.PrincipalAndInterest {
		monthlyPayment = loans.PeriodicPayment(debt, in.AnnualInterestRate, constants.MonthsPerYear, in.HorizonYears*constants.MonthsPerYear)
	}

	for year := 1; year <= in.HorizonYears; year++ {
		if year == 1 && in.ApplyGuaranteeScheme {
			debt -= in.PropertyValue * GuaranteeFraction
		}

		value *= 1 + rate

		if in.LoanType == loans.PrincipalAndInterest {
			annualInterest := debt * in.AnnualInterestRate
			principal := monthlyPayment*constants.MonthsPerYear - annualInterest
			debt = math.Max(0, debt-principal)
		}

		roundedValue := mathutil.RoundWhole(value)
		roundedDebt := mathutil.RoundWhole(debt)
		snapshots = append(snapshots, YearSnapshot{
			Year:          year,
			PropertyValue: roundedValue,
			Debt:          roundedDebt,
			Equity:        roundedValue - roundedDebt,
		})
	}

	return snapshots
}
