package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
)

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestStructValidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  any
	}{
		{
			name: "projection",
			req: ProjectionRequest{
				PropertyValue: 600000,
				GrowthTier:    "medium",
				LoanType:      "interestOnly",
				InterestRate:  5.5,
				HorizonYears:  intPtr(1),
			},
		},
		{
			name: "projection with snake case loan type",
			req: ProjectionRequest{
				PropertyValue: 600000,
				GrowthTier:    "high",
				LoanType:      "principal_and_interest",
			},
		},
		{
			name: "portfolio",
			req: PortfolioRequest{
				Properties: []PortfolioPropertyRequest{
					{ID: "p1", PropertyValue: 500000, GrowthTier: "medium"},
					{PropertyValue: 600000, GrowthTier: "low", AcquisitionYear: intPtr(0)},
				},
				DepositPercentage: floatPtr(10),
			},
		},
		{
			name: "mortgage",
			req: MortgageRequest{
				LoanAmount:   500000,
				InterestRate: 0,
				TermYears:    30,
				Frequency:    "monthly",
				LoanType:     "principalAndInterest",
				StartDate:    "2025-01-15",
			},
		},
		{
			name: "borrowing",
			req:  BorrowingRequest{GrossIncome: 40000, MaritalStatus: "single"},
		},
		{
			name: "negative gearing",
			req: NegativeGearingRequest{
				PropertyType:         "Dual Key",
				PropertyPrice:        600000,
				OwnershipPercentage:  100,
				CurrentTaxableIncome: 77000,
				DepreciationYear:     10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Struct(tt.req); err != nil {
				t.Errorf("Struct() unexpected error = %v", err)
			}
		})
	}
}

func TestStructInvalidRequests(t *testing.T) {
	tests := []struct {
		name   string
		req    any
		fields []string
	}{
		{
			name: "projection non-positive value and unknown tier",
			req: ProjectionRequest{
				PropertyValue: 0,
				GrowthTier:    "extreme",
				LoanType:      "interestOnly",
			},
			fields: []string{"propertyValue", "growthTier"},
		},
		{
			name: "projection rate over 100 percent",
			req: ProjectionRequest{
				PropertyValue: 1,
				GrowthTier:    "low",
				LoanType:      "balloon",
				InterestRate:  120,
			},
			fields: []string{"loanType", "interestRate"},
		},
		{
			name:   "portfolio without properties",
			req:    PortfolioRequest{},
			fields: []string{"properties"},
		},
		{
			name: "portfolio nested property",
			req: PortfolioRequest{
				Properties: []PortfolioPropertyRequest{
					{PropertyValue: 500000, GrowthTier: "medium"},
					{PropertyValue: -1, GrowthTier: "medium", AcquisitionYear: intPtr(-2)},
				},
				RefinanceLimitPercentage: floatPtr(150),
			},
			fields: []string{"properties[1].propertyValue", "properties[1].acquisitionYear", "refinanceLimitPercentage"},
		},
		{
			name: "mortgage",
			req: MortgageRequest{
				LoanAmount:          -5,
				TermYears:           0,
				Frequency:           "daily",
				LoanType:            "interestOnly",
				AdditionalRepayment: -1,
				StartDate:           "15/01/2025",
			},
			fields: []string{"loanAmount", "termYears", "frequency", "additionalRepayment", "startDate"},
		},
		{
			name:   "borrowing",
			req:    BorrowingRequest{GrossIncome: -1, MaritalStatus: "engaged", Dependants: -1},
			fields: []string{"grossIncome", "maritalStatus", "dependants"},
		},
		{
			name: "negative gearing",
			req: NegativeGearingRequest{
				PropertyType:        "Castle",
				PropertyPrice:       600000,
				OwnershipPercentage: 101,
				DepreciationYear:    11,
			},
			fields: []string{"propertyType", "ownershipPercentage", "depreciationYear"},
		},
		{
			name: "portfolio duplicate ids",
			req: PortfolioRequest{
				Properties: []PortfolioPropertyRequest{
					{ID: "x", PropertyValue: 500000, GrowthTier: "medium"},
					{ID: "x", PropertyValue: 600000, GrowthTier: "medium"},
					{PropertyValue: 700000, GrowthTier: "low"},
					{PropertyValue: 800000, GrowthTier: "low"},
					{ID: "x", PropertyValue: 900000, GrowthTier: "high"},
				},
			},
			fields: []string{"properties[1].id", "properties[4].id"},
		},
		{
			name: "infinite amounts",
			req: ProjectionRequest{
				PropertyValue: math.Inf(1),
				GrowthTier:    "low",
				LoanType:      "interestOnly",
			},
			fields: []string{"propertyValue"},
		},
		{
			name: "not a number",
			req: BorrowingRequest{
				GrossIncome:   math.NaN(),
				MaritalStatus: "single",
				ExistingLoans: math.Inf(1),
			},
			fields: []string{"grossIncome", "existingLoans"},
		},
		{
			name:   "years remaining",
			req:    YearsRemainingRequest{Balance: 0, MonthlyPayment: math.Inf(1), InterestRate: -1},
			fields: []string{"balance", "monthlyPayment", "interestRate"},
		},
		{
			name:   "negative gearing year zero",
			req:    NegativeGearingRequest{PropertyType: "House", PropertyPrice: 1, OwnershipPercentage: 50},
			fields: []string{"depreciationYear"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if err == nil {
				t.Fatalf("Struct() expected error but got none")
			}
			verrs, ok := AsErrors(err)
			if !ok {
				t.Fatalf("Struct() error type = %T, expected Errors", err)
			}
			if got := verrs.Fields(); !reflect.DeepEqual(got, tt.fields) {
				t.Errorf("Struct() fields = %v, expected %v", got, tt.fields)
			}
			for _, fe := range verrs {
				if fe.Message == "" || fe.Tag == "" {
					t.Errorf("field %s missing tag or message: %+v", fe.Field, fe)
				}
			}
		})
	}
}

func TestStructDuplicateIDTag(t *testing.T) {
	err := Struct(&PortfolioRequest{
		Properties: []PortfolioPropertyRequest{
			{ID: "home", PropertyValue: 500000, GrowthTier: "medium"},
			{ID: "home", PropertyValue: 500000, GrowthTier: "medium"},
		},
	})
	verrs, ok := AsErrors(err)
	if !ok || len(verrs) != 1 {
		t.Fatalf("Struct() = %v, expected one duplicate id error", err)
	}
	if verrs[0].Tag != "unique" || verrs[0].Message != "must be unique" {
		t.Errorf("duplicate id error = %+v", verrs[0])
	}
}

func TestErrorsMessage(t *testing.T) {
	err := Struct(BorrowingRequest{MaritalStatus: "engaged"})
	if err == nil {
		t.Fatal("Struct() expected error but got none")
	}
	msg := err.Error()
	if !strings.Contains(msg, "maritalStatus must be one of single, married, de-facto, divorced, widowed") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestAsErrorsWrapped(t *testing.T) {
	err := fmt.Errorf("scenario %q: %w", "base", Struct(BorrowingRequest{GrossIncome: -1, MaritalStatus: "single"}))
	verrs, ok := AsErrors(err)
	if !ok {
		t.Fatalf("AsErrors() did not find validation errors in %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "grossIncome" || verrs[0].Tag != "gte" {
		t.Errorf("AsErrors() = %+v", verrs)
	}

	if _, ok := AsErrors(errors.New("plain")); ok {
		t.Errorf("AsErrors() matched a plain error")
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"pretty", false},
		{"csv", false},
		{"json", true},
		{"", true},
		{"PRETTY", true},
		{" pretty ", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, expectErr %v", tt.format, err, tt.expectErr)
			}
		})
	}
}
