// Package loans provides mortgage repayment calculations.
package loans

import (
	"fmt"
	"math"
	"time"

	"github.com/lachho/property-sub000/pkg/constants"
	"github.com/lachho/property-sub000/pkg/mathutil"
)

// LoanType determines whether a loan's principal amortizes.
type LoanType string

// Supported loan types.
const (
	InterestOnly         LoanType = "interestOnly"
	PrincipalAndInterest LoanType = "principalAndInterest"
)

// Valid reports whether the loan type is supported.
func (l LoanType) Valid() bool {
	return l == InterestOnly || l == PrincipalAndInterest
}

// ParseLoanType accepts both the camelCase and snake_case spellings used by
// the web forms.
func ParseLoanType(s string) (LoanType, error) {
	switch s {
	case string(InterestOnly), "interest_only":
		return InterestOnly, nil
	case string(PrincipalAndInterest), "principal_and_interest":
		return PrincipalAndInterest, nil
	}
	return "", fmt.Errorf("unknown loan type %q", s)
}

// Frequency is how often repayments are made.
type Frequency string

// Supported repayment frequencies.
const (
	Weekly      Frequency = "weekly"
	Fortnightly Frequency = "fortnightly"
	Monthly     Frequency = "monthly"
)

// PeriodsPerYear returns the number of repayments per year, or 0 for an
// unknown frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return constants.WeeksPerYear
	case Fortnightly:
		return constants.FortnightsPerYear
	case Monthly:
		return constants.MonthsPerYear
	}
	return 0
}

// Valid reports whether the frequency is supported.
func (f Frequency) Valid() bool {
	return f.PeriodsPerYear() > 0
}

// advance moves a date forward by n repayment periods.
func (f Frequency) advance(start time.Time, n int) time.Time {
	switch f {
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Fortnightly:
		return start.AddDate(0, 0, 14*n)
	}
	return start.AddDate(0, n, 0)
}

// PeriodicPayment calculates the fixed repayment for an amortizing loan using
// the standard annuity formula. annualInterestRate is a fraction (0.055). A
// zero rate degrades to an equal split of the principal.
func PeriodicPayment(principal, annualInterestRate float64, periodsPerYear, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		return principal / float64(periods)
	}

	periodicRate := annualInterestRate / float64(periodsPerYear)
	power := math.Pow(1+periodicRate, float64(periods))
	return principal * periodicRate * power / (power - 1)
}

// InterestOnlyPayment calculates the repayment that covers one period's
// interest without reducing principal.
func InterestOnlyPayment(principal, annualInterestRate float64, periodsPerYear int) float64 {
	if periodsPerYear <= 0 {
		return 0
	}
	return principal * annualInterestRate / float64(periodsPerYear)
}

// Input holds the parameters of a mortgage calculation. AnnualInterestRate is
// a fraction; AdditionalRepayment is paid on top of every scheduled repayment.
type Input struct {
	LoanAmount          float64
	AnnualInterestRate  float64
	TermYears           int
	Frequency           Frequency
	LoanType            LoanType
	AdditionalRepayment float64
	Start               time.Time
}

// Result is the outcome of a mortgage calculation. Totals describe the
// nominal schedule; TimeSavedMonths and InterestSaved are only set when an
// additional repayment shortens a principal-and-interest loan. The two
// percentages split TotalRepayments into principal and interest.
type Result struct {
	PeriodicPayment     float64   `json:"periodicPayment"`
	Frequency           Frequency `json:"frequency"`
	LoanType            LoanType  `json:"loanType"`
	Periods             int       `json:"periods"`
	TotalRepayments     float64   `json:"totalRepayments"`
	TotalInterest       float64   `json:"totalInterest"`
	PayoffDate          time.Time `json:"payoffDate"`
	AdditionalRepayment float64   `json:"additionalRepayment"`
	ActualPeriods       int       `json:"actualPeriods"`
	TimeSavedMonths     float64   `json:"timeSavedMonths"`
	InterestSaved       float64   `json:"interestSaved"`
	ComparisonRate      float64   `json:"comparisonRate"`
	PrincipalPercentage float64   `json:"principalPercentage"`
	InterestPercentage  float64   `json:"interestPercentage"`
}

// Period is one row of a repayment schedule.
type Period struct {
	Number             int     `json:"number"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// comparisonMargin is added to the headline rate to approximate the
// comparison rate including fees.
const comparisonMargin = 0.005

func scheduledPayment(in Input) float64 {
	ppy := in.Frequency.PeriodsPerYear()
	if in.LoanType == InterestOnly {
		return InterestOnlyPayment(in.LoanAmount, in.AnnualInterestRate, ppy)
	}
	return PeriodicPayment(in.LoanAmount, in.AnnualInterestRate, ppy, in.TermYears*ppy)
}

// Calculate computes the repayment, totals and payoff date for a loan, plus
// the time and interest saved by any additional repayment.
func Calculate(in Input) Result {
	ppy := in.Frequency.PeriodsPerYear()
	periods := in.TermYears * ppy
	payment := scheduledPayment(in)

	totalRepayments := payment * float64(periods)
	totalInterest := totalRepayments
	if in.LoanType == PrincipalAndInterest {
		totalInterest = math.Max(0, totalRepayments-in.LoanAmount)
	}

	result := Result{
		PeriodicPayment:     payment,
		Frequency:           in.Frequency,
		LoanType:            in.LoanType,
		Periods:             periods,
		TotalRepayments:     totalRepayments,
		TotalInterest:       totalInterest,
		PayoffDate:          in.Start.AddDate(in.TermYears, 0, 0),
		AdditionalRepayment: in.AdditionalRepayment,
		ActualPeriods:       periods,
		ComparisonRate:      in.AnnualInterestRate + comparisonMargin,
	}
	if totalRepayments > 0 {
		result.InterestPercentage = totalInterest / totalRepayments * constants.PercentageMultiplier
		result.PrincipalPercentage = constants.PercentageMultiplier - result.InterestPercentage
	}

	if in.AdditionalRepayment > 0 && in.LoanType == PrincipalAndInterest {
		rows := amortize(in.LoanAmount, in.AnnualInterestRate/float64(ppy), payment+in.AdditionalRepayment, periods)
		paidInterest := 0.0
		for _, row := range rows {
			paidInterest += row.Interest
		}
		actual := len(rows)
		result.ActualPeriods = actual
		result.TimeSavedMonths = float64(periods-actual) * constants.MonthsPerYear / float64(ppy)
		result.InterestSaved = math.Max(0, totalInterest-paidInterest)
		result.PayoffDate = in.Frequency.advance(in.Start, actual)
	}

	return result
}

// MaxRemainingMonths caps YearsRemaining for payments that never clear the
// balance.
const MaxRemainingMonths = 600

// YearsRemaining estimates how long a monthly payment takes to clear balance
// at annualInterestRate (a fraction), in years. The result is capped at
// MaxRemainingMonths; a non-positive balance or payment gives 0.
func YearsRemaining(balance, monthlyPayment, annualInterestRate float64) float64 {
	if balance <= 0 || monthlyPayment <= 0 {
		return 0
	}
	monthlyRate := annualInterestRate / constants.MonthsPerYear
	months := 0
	for balance > constants.CurrencyTolerance && months < MaxRemainingMonths {
		balance -= monthlyPayment - balance*monthlyRate
		months++
	}
	return float64(months) / constants.MonthsPerYear
}

// Schedule returns the period-by-period repayment rows for a loan, including
// any additional repayment.
func Schedule(in Input) []Period {
	ppy := in.Frequency.PeriodsPerYear()
	periods := in.TermYears * ppy
	payment := scheduledPayment(in)

	if in.LoanType == InterestOnly {
		rows := make([]Period, 0, periods)
		for n := 1; n <= periods; n++ {
			rows = append(rows, Period{
				Number:             n,
				Payment:            payment,
				Interest:           payment,
				RemainingPrincipal: in.LoanAmount,
			})
		}
		return rows
	}

	return amortize(in.LoanAmount, in.AnnualInterestRate/float64(ppy), payment+in.AdditionalRepayment, periods)
}

// amortize reduces the balance period by period with a fixed payment until it
// reaches zero or maxPeriods is exhausted. The final payment is capped to the
// outstanding balance plus interest.
func amortize(principal, periodicRate, payment float64, maxPeriods int) []Period {
	rows := make([]Period, 0, maxPeriods)
	balance := principal
	for n := 1; n <= maxPeriods && !mathutil.IsZero(balance); n++ {
		interest := balance * periodicRate
		reduction := payment - interest
		if reduction >= balance-constants.CurrencyTolerance || n == maxPeriods {
			reduction = balance
		}
		balance -= reduction
		rows = append(rows, Period{
			Number:             n,
			Payment:            reduction + interest,
			Principal:          reduction,
			Interest:           interest,
			RemainingPrincipal: balance,
		})
	}
	return rows
}
