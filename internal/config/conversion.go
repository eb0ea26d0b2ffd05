package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lachho/property-sub000/pkg/borrowing"
	"github.com/lachho/property-sub000/pkg/datetime"
	"github.com/lachho/property-sub000/pkg/gearing"
	"github.com/lachho/property-sub000/pkg/growth"
	"github.com/lachho/property-sub000/pkg/loans"
	"github.com/lachho/property-sub000/pkg/mathutil"
	"github.com/lachho/property-sub000/pkg/portfolio"
	"github.com/lachho/property-sub000/pkg/projection"
	"github.com/lachho/property-sub000/pkg/validation"
)

// The conversions below expect requests that have passed validation.Struct.
// Percentages are converted to fractions here and nowhere else.

// ParseStartDate parses a YYYY-MM-DD date.
func ParseStartDate(s string) (time.Time, error) {
	t, err := datetime.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	return t, nil
}

func mustLoanType(s string) loans.LoanType {
	lt, err := loans.ParseLoanType(s)
	if err != nil {
		panic(err)
	}
	return lt
}

// ProjectionInput converts a projection request, defaulting the horizon to
// 30 years and enabling the guarantee scheme unless disabled.
func ProjectionInput(r validation.ProjectionRequest) projection.Input {
	in := projection.DefaultInput(
		r.PropertyValue,
		growth.Tier(r.GrowthTier),
		mustLoanType(r.LoanType),
		mathutil.PercentToFraction(r.InterestRate),
	)
	if r.HorizonYears != nil {
		in.HorizonYears = *r.HorizonYears
	}
	if r.ApplyGuaranteeScheme != nil {
		in.ApplyGuaranteeScheme = *r.ApplyGuaranteeScheme
	}
	return in
}

// propertyIDNamespace scopes the name-based UUIDs given to unnamed properties.
var propertyIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lachho/property-sub000/portfolio-property"))

// AssignPropertyIDs gives every portfolio property without an ID a UUID
// derived from its position, value and growth tier, so identical requests get
// identical IDs.
func AssignPropertyIDs(r *validation.PortfolioRequest) {
	for i, p := range r.Properties {
		if p.ID == "" {
			name := fmt.Sprintf("%d:%v:%s", i, p.PropertyValue, p.GrowthTier)
			r.Properties[i].ID = uuid.NewSHA1(propertyIDNamespace, []byte(name)).String()
		}
	}
}

// PortfolioProperties converts the candidate properties, preserving order.
func PortfolioProperties(r validation.PortfolioRequest) []portfolio.Property {
	props := make([]portfolio.Property, len(r.Properties))
	for i, p := range r.Properties {
		props[i] = portfolio.Property{
			ID:    p.ID,
			Value: p.PropertyValue,
			Tier:  growth.Tier(p.GrowthTier),
		}
		if p.AcquisitionYear != nil {
			year := *p.AcquisitionYear
			props[i].AcquisitionYear = &year
		}
	}
	return props
}

// PortfolioOptions converts the lending percentages, falling back to
// portfolio.DefaultOptions for anything omitted.
func PortfolioOptions(r validation.PortfolioRequest) portfolio.Options {
	opts := portfolio.DefaultOptions()
	if r.HorizonYears != nil {
		opts.HorizonYears = *r.HorizonYears
	}
	if r.DepositPercentage != nil {
		opts.DepositFraction = mathutil.PercentToFraction(*r.DepositPercentage)
	}
	if r.FeesPercentage != nil {
		opts.FeesFraction = mathutil.PercentToFraction(*r.FeesPercentage)
	}
	if r.RefinanceLimitPercentage != nil {
		opts.RefinanceLimitFraction = mathutil.PercentToFraction(*r.RefinanceLimitPercentage)
	}
	return opts
}

// MortgageInput converts a mortgage request. The request's own start date
// wins over start.
func MortgageInput(r validation.MortgageRequest, start time.Time) (loans.Input, error) {
	if r.StartDate != "" {
		parsed, err := ParseStartDate(r.StartDate)
		if err != nil {
			return loans.Input{}, err
		}
		start = parsed
	}
	return loans.Input{
		LoanAmount:          r.LoanAmount,
		AnnualInterestRate:  mathutil.PercentToFraction(r.InterestRate),
		TermYears:           r.TermYears,
		Frequency:           loans.Frequency(r.Frequency),
		LoanType:            mustLoanType(r.LoanType),
		AdditionalRepayment: r.AdditionalRepayment,
		Start:               start,
	}, nil
}

// YearsRemaining estimates the time left on an existing loan.
func YearsRemaining(r validation.YearsRemainingRequest) float64 {
	return loans.YearsRemaining(r.Balance, r.MonthlyPayment, mathutil.PercentToFraction(r.InterestRate))
}

// BorrowingInput converts a borrowing capacity request.
func BorrowingInput(r validation.BorrowingRequest) borrowing.Input {
	return borrowing.Input{
		GrossIncome:   r.GrossIncome,
		MaritalStatus: borrowing.MaritalStatus(r.MaritalStatus),
		PartnerIncome: r.PartnerIncome,
		Dependants:    r.Dependants,
		ExistingLoans: r.ExistingLoans,
	}
}

// NegativeGearingInput converts a negative gearing request. Ownership stays a
// percentage.
func NegativeGearingInput(r validation.NegativeGearingRequest) gearing.Input {
	return gearing.Input{
		PropertyType:         gearing.PropertyType(r.PropertyType),
		PropertyPrice:        r.PropertyPrice,
		OwnershipPercentage:  r.OwnershipPercentage,
		CurrentTaxableIncome: r.CurrentTaxableIncome,
		DepreciationYear:     r.DepreciationYear,
	}
}
