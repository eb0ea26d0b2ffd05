// Package validation rejects out-of-domain calculator inputs before they reach
// the engine. Requests carry percentages as entered by users; the engine works
// in fractions.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lachho/property-sub000/pkg/borrowing"
	"github.com/lachho/property-sub000/pkg/gearing"
	"github.com/lachho/property-sub000/pkg/growth"
	"github.com/lachho/property-sub000/pkg/loans"
)

// FieldError identifies one offending field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Message
}

// Errors is every field that failed validation.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields.
func (e Errors) Fields() []string {
	names := make([]string, len(e))
	for i, fe := range e {
		names[i] = fe.Field
	}
	return names
}

// AsErrors extracts validation errors from a wrapped error chain.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("growth_tier", validateGrowthTier)
	_ = v.RegisterValidation("loan_type", validateLoanType)
	_ = v.RegisterValidation("frequency", validateFrequency)
	_ = v.RegisterValidation("marital_status", validateMaritalStatus)
	_ = v.RegisterValidation("property_type", validatePropertyType)
	_ = v.RegisterValidation("finite", validateFinite)
	v.RegisterStructValidation(validateUniquePropertyIDs, PortfolioRequest{})
	return v
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// validateUniquePropertyIDs reports every property whose ID repeats an
// earlier one.
func validateUniquePropertyIDs(sl validator.StructLevel) {
	req := sl.Current().Interface().(PortfolioRequest)
	seen := make(map[string]bool, len(req.Properties))
	for i, p := range req.Properties {
		if p.ID == "" {
			continue
		}
		if seen[p.ID] {
			name := fmt.Sprintf("properties[%d].id", i)
			sl.ReportError(p.ID, name, name, "unique", "")
		}
		seen[p.ID] = true
	}
}

func validateGrowthTier(fl validator.FieldLevel) bool {
	return growth.Tier(fl.Field().String()).Valid()
}

func validateLoanType(fl validator.FieldLevel) bool {
	_, err := loans.ParseLoanType(fl.Field().String())
	return err == nil
}

func validateFrequency(fl validator.FieldLevel) bool {
	return loans.Frequency(fl.Field().String()).Valid()
}

func validateMaritalStatus(fl validator.FieldLevel) bool {
	return borrowing.MaritalStatus(fl.Field().String()).Valid()
}

func validatePropertyType(fl validator.FieldLevel) bool {
	return gearing.PropertyType(fl.Field().String()).Valid()
}

// Struct validates a request struct and returns Errors when any field is out
// of range.
func Struct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from a namespace such as
// "PortfolioRequest.properties[1].growthTier".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "finite":
		return "must be a finite number"
	case "unique":
		return "must be unique"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "growth_tier":
		return fmt.Sprintf("must be one of %s", join(growth.Tiers()))
	case "loan_type":
		return fmt.Sprintf("must be one of %s, %s", loans.InterestOnly, loans.PrincipalAndInterest)
	case "frequency":
		return fmt.Sprintf("must be one of %s, %s, %s", loans.Weekly, loans.Fortnightly, loans.Monthly)
	case "marital_status":
		return fmt.Sprintf("must be one of %s", join(borrowing.Statuses()))
	case "property_type":
		return fmt.Sprintf("must be one of %s", join(gearing.PropertyTypes()))
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
