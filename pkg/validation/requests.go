package validation

// ProjectionRequest is the boundary form of a single property projection.
// InterestRate is a percentage.
type ProjectionRequest struct {
	PropertyValue        float64 `json:"propertyValue" yaml:"propertyValue" validate:"finite,gt=0"`
	GrowthTier           string  `json:"growthTier" yaml:"growthTier" validate:"required,growth_tier"`
	LoanType             string  `json:"loanType" yaml:"loanType" validate:"required,loan_type"`
	InterestRate         float64 `json:"interestRate" yaml:"interestRate" validate:"finite,gte=0,lte=100"`
	HorizonYears         *int    `json:"horizonYears,omitempty" yaml:"horizonYears,omitempty" validate:"omitempty,gte=0,lte=100"`
	ApplyGuaranteeScheme *bool   `json:"applyGuaranteeScheme,omitempty" yaml:"applyGuaranteeScheme,omitempty"`
}

// PortfolioPropertyRequest is one candidate property. An empty ID is assigned
// by the caller.
type PortfolioPropertyRequest struct {
	ID              string  `json:"id" yaml:"id"`
	PropertyValue   float64 `json:"propertyValue" yaml:"propertyValue" validate:"finite,gt=0"`
	GrowthTier      string  `json:"growthTier" yaml:"growthTier" validate:"required,growth_tier"`
	AcquisitionYear *int    `json:"acquisitionYear,omitempty" yaml:"acquisitionYear,omitempty" validate:"omitempty,gte=0"`
}

// PortfolioRequest is the boundary form of a portfolio simulation. The
// percentage options default when omitted. Property IDs must be unique;
// empty IDs are assigned later and are not compared.
type PortfolioRequest struct {
	Properties               []PortfolioPropertyRequest `json:"properties" yaml:"properties" validate:"required,min=1,dive"`
	HorizonYears             *int                       `json:"horizonYears,omitempty" yaml:"horizonYears,omitempty" validate:"omitempty,gte=0,lte=100"`
	DepositPercentage        *float64                   `json:"depositPercentage,omitempty" yaml:"depositPercentage,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	FeesPercentage           *float64                   `json:"feesPercentage,omitempty" yaml:"feesPercentage,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	RefinanceLimitPercentage *float64                   `json:"refinanceLimitPercentage,omitempty" yaml:"refinanceLimitPercentage,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
}

// MortgageRequest is the boundary form of a repayment calculation.
// AdditionalRepayment is paid every period on top of the scheduled repayment.
type MortgageRequest struct {
	LoanAmount          float64 `json:"loanAmount" yaml:"loanAmount" validate:"finite,gt=0"`
	InterestRate        float64 `json:"interestRate" yaml:"interestRate" validate:"finite,gte=0,lte=100"`
	TermYears           int     `json:"termYears" yaml:"termYears" validate:"gt=0,lte=100"`
	Frequency           string  `json:"frequency" yaml:"frequency" validate:"required,frequency"`
	LoanType            string  `json:"loanType" yaml:"loanType" validate:"required,loan_type"`
	AdditionalRepayment float64 `json:"additionalRepayment,omitempty" yaml:"additionalRepayment,omitempty" validate:"finite,gte=0"`
	StartDate           string  `json:"startDate,omitempty" yaml:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// BorrowingRequest is the boundary form of a borrowing capacity estimate.
type BorrowingRequest struct {
	GrossIncome   float64 `json:"grossIncome" yaml:"grossIncome" validate:"finite,gte=0"`
	MaritalStatus string  `json:"maritalStatus" yaml:"maritalStatus" validate:"required,marital_status"`
	PartnerIncome float64 `json:"partnerIncome,omitempty" yaml:"partnerIncome,omitempty" validate:"finite,gte=0"`
	Dependants    int     `json:"dependants" yaml:"dependants" validate:"gte=0"`
	ExistingLoans float64 `json:"existingLoans" yaml:"existingLoans" validate:"finite,gte=0"`
}

// NegativeGearingRequest is the boundary form of a negative gearing
// calculation. OwnershipPercentage is 0-100.
type NegativeGearingRequest struct {
	PropertyType         string  `json:"propertyType" yaml:"propertyType" validate:"required,property_type"`
	PropertyPrice        float64 `json:"propertyPrice" yaml:"propertyPrice" validate:"finite,gt=0"`
	OwnershipPercentage  float64 `json:"ownershipPercentage" yaml:"ownershipPercentage" validate:"finite,gte=0,lte=100"`
	CurrentTaxableIncome float64 `json:"currentTaxableIncome" yaml:"currentTaxableIncome" validate:"finite,gte=0"`
	DepreciationYear     int     `json:"depreciationYear" yaml:"depreciationYear" validate:"gte=1,lte=10"`
}

// YearsRemainingRequest estimates how long an existing loan has left at its
// current monthly payment.
type YearsRemainingRequest struct {
	Balance        float64 `json:"balance" yaml:"balance" validate:"finite,gt=0"`
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment" validate:"finite,gt=0"`
	InterestRate   float64 `json:"interestRate" yaml:"interestRate" validate:"finite,gte=0,lte=100"`
}
