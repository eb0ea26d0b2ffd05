// Package borrowing estimates how much a household can borrow using a fixed
// income multiple less a per-dependant allowance and existing commitments.
package borrowing

import "math"

// MaritalStatus determines whether a partner's income is counted.
type MaritalStatus string

// Supported marital statuses.
const (
	Single   MaritalStatus = "single"
	Married  MaritalStatus = "married"
	DeFacto  MaritalStatus = "de-facto"
	Divorced MaritalStatus = "divorced"
	Widowed  MaritalStatus = "widowed"
)

// Valid reports whether the status is supported.
func (m MaritalStatus) Valid() bool {
	switch m {
	case Single, Married, DeFacto, Divorced, Widowed:
		return true
	}
	return false
}

// CountsPartnerIncome reports whether a partner's income is pooled.
func (m MaritalStatus) CountsPartnerIncome() bool {
	return m == Married || m == DeFacto
}

// Statuses lists the supported marital statuses.
func Statuses() []MaritalStatus {
	return []MaritalStatus{Single, Married, DeFacto, Divorced, Widowed}
}

const (
	// IncomeMultiple is applied to assessable household income.
	IncomeMultiple = 6.0
	// DependantAllowance is deducted from income for each dependant.
	DependantAllowance = 5000.0
)

// Input describes a household's income and commitments.
type Input struct {
	GrossIncome   float64       `json:"grossIncome"`
	MaritalStatus MaritalStatus `json:"maritalStatus"`
	PartnerIncome float64       `json:"partnerIncome"`
	Dependants    int           `json:"dependants"`
	ExistingLoans float64       `json:"existingLoans"`
}

// AssessableIncome is gross income plus any pooled partner income, less the
// dependant allowance.
func AssessableIncome(in Input) float64 {
	income := in.GrossIncome
	if in.MaritalStatus.CountsPartnerIncome() {
		income += in.PartnerIncome
	}
	return income - DependantAllowance*float64(in.Dependants)
}

// Estimate returns the borrowing capacity, never less than zero.
func Estimate(in Input) float64 {
	return math.Max(0, AssessableIncome(in)*IncomeMultiple-in.ExistingLoans)
}
