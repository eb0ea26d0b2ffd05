// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lachho/property-sub000/internal/forecast"
	"github.com/lachho/property-sub000/pkg/format"
	"github.com/lachho/property-sub000/pkg/gearing"
	"github.com/lachho/property-sub000/pkg/loans"
	"github.com/lachho/property-sub000/pkg/portfolio"
	"github.com/lachho/property-sub000/pkg/projection"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []forecast.Forecast) {
	for i, result := range results {
		fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		if result.Projection != nil {
			prettyProjection(w, result.Projection)
		}
		if result.Portfolio != nil {
			prettyPortfolio(w, *result.Portfolio)
		}
		if result.Mortgage != nil {
			prettyMortgage(w, *result.Mortgage)
		}
		if result.BorrowingCapacity != nil {
			fmt.Fprintf(w, "\nBorrowing capacity: %s\n", format.Currency(*result.BorrowingCapacity))
		}
		if result.NegativeGearing != nil {
			prettyGearing(w, *result.NegativeGearing)
		}
		if len(result.Notes) > 0 {
			fmt.Fprintf(w, "\nNotes:\n")
			for _, note := range result.Notes {
				fmt.Fprintf(w, "  - %s\n", note)
			}
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

func prettyProjection(w io.Writer, years []projection.YearSnapshot) {
	fmt.Fprintf(w, "\nProperty projection\n")
	fmt.Fprintf(w, "Year | Property Value | Debt | Equity\n")
	fmt.Fprintf(w, "____ | ______________ | ____ | ______\n")
	for _, y := range years {
		fmt.Fprintf(w, "%4d | %s | %s | %s\n", y.Year,
			format.Currency(y.PropertyValue), format.Currency(y.Debt), format.Currency(y.Equity))
	}
}

func prettyPortfolio(w io.Writer, result portfolio.Result) {
	fmt.Fprintf(w, "\nPortfolio\n")
	fmt.Fprintf(w, "Year | Total Value | Total Debt | Total Equity | Held\n")
	fmt.Fprintf(w, "____ | ___________ | __________ | ____________ | ____\n")
	for _, y := range result.Years {
		var held []string
		for _, h := range y.Properties {
			if h.Value > 0 {
				held = append(held, h.ID)
			}
		}
		fmt.Fprintf(w, "%4d | %s | %s | %s | %s\n", y.Year,
			format.WholeCurrency(y.TotalValue), format.WholeCurrency(y.TotalDebt),
			format.WholeCurrency(y.TotalEquity), strings.Join(held, ","))
	}
	if len(result.Acquisitions) == 0 {
		fmt.Fprintf(w, "No further properties acquired\n")
		return
	}
	fmt.Fprintf(w, "Acquisitions:\n")
	for _, acq := range result.Acquisitions {
		draws := make([]string, len(acq.Draws))
		for i, d := range acq.Draws {
			draws[i] = fmt.Sprintf("%s from %s", format.WholeCurrency(d.Amount), d.FromID)
		}
		fmt.Fprintf(w, "  year %d: %s, deposit %s (%s), debt %s\n", acq.Year, acq.ID,
			format.WholeCurrency(acq.Deposit), strings.Join(draws, ", "), format.WholeCurrency(acq.Debt))
	}
}

func prettyMortgage(w io.Writer, m loans.Result) {
	fmt.Fprintf(w, "\nMortgage repayments (%s, %s)\n", m.Frequency, m.LoanType)
	fmt.Fprintf(w, "  Repayment:        %s\n", format.Currency(m.PeriodicPayment))
	fmt.Fprintf(w, "  Repayments:       %d\n", m.Periods)
	fmt.Fprintf(w, "  Total repayments: %s\n", format.Currency(m.TotalRepayments))
	fmt.Fprintf(w, "  Total interest:   %s\n", format.Currency(m.TotalInterest))
	fmt.Fprintf(w, "  Comparison rate:  %s\n", format.Rate(m.ComparisonRate))
	fmt.Fprintf(w, "  Payoff date:      %s\n", m.PayoffDate.Format("2006-01-02"))
	if m.AdditionalRepayment > 0 {
		fmt.Fprintf(w, "  Extra repayment:  %s\n", format.Currency(m.AdditionalRepayment))
		fmt.Fprintf(w, "  Time saved:       %.1f months\n", m.TimeSavedMonths)
		fmt.Fprintf(w, "  Interest saved:   %s\n", format.Currency(m.InterestSaved))
	}
}

func prettyGearing(w io.Writer, g gearing.Result) {
	b := g.Breakdown
	fmt.Fprintf(w, "\nNegative gearing\n")
	fmt.Fprintf(w, "  Rent:               %s per week, %s per year\n", format.Currency(b.WeeklyRent), format.Currency(b.AnnualRent))
	fmt.Fprintf(w, "  Depreciation:       %s (%s)\n", format.Currency(b.Depreciation), format.Percent(b.DepreciationPercent))
	fmt.Fprintf(w, "  Other expenses:     %s\n", format.Currency(b.OtherExpenses))
	fmt.Fprintf(w, "  Interest expense:   %s\n", format.Currency(b.InterestExpense))
	fmt.Fprintf(w, "  Rental income:      %s\n", format.Currency(g.RentalIncome))
	fmt.Fprintf(w, "  Rental deductions:  %s\n", format.Currency(g.RentalDeductions))
	fmt.Fprintf(w, "  Taxable income:     %s -> %s\n", format.Currency(g.TotalIncome-g.RentalIncome), format.Currency(g.NewTaxableIncome))
	fmt.Fprintf(w, "  Tax:                %s -> %s\n", format.Currency(g.CurrentTax), format.Currency(g.NewTax))
	fmt.Fprintf(w, "  Marginal rate:      %s -> %s\n", format.Percent(b.MarginalRateBefore), format.Percent(b.MarginalRateAfter))
	fmt.Fprintf(w, "  Tax savings:        %s\n", format.Currency(g.TaxSavings))
}

// csvHeader is the long-format column layout; one row per value.
var csvHeader = []string{"scenario", "calculation", "year", "item", "value"}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, results []forecast.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		for _, row := range csvRows(result) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV output as a string.
func CsvString(results []forecast.Forecast) (string, error) {
	var sb strings.Builder
	if err := CsvFormat(&sb, results); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func csvRows(result forecast.Forecast) [][]string {
	var rows [][]string
	add := func(calculation string, year int, item, value string) {
		y := ""
		if year >= 0 {
			y = strconv.Itoa(year)
		}
		rows = append(rows, []string{result.Name, calculation, y, item, value})
	}

	for _, s := range result.Projection {
		add("projection", s.Year, "propertyValue", amount(s.PropertyValue))
		add("projection", s.Year, "debt", amount(s.Debt))
		add("projection", s.Year, "equity", amount(s.Equity))
	}

	if p := result.Portfolio; p != nil {
		for _, s := range p.Years {
			add("portfolio", s.Year, "totalValue", amount(s.TotalValue))
			add("portfolio", s.Year, "totalDebt", amount(s.TotalDebt))
			add("portfolio", s.Year, "totalEquity", amount(s.TotalEquity))
			for _, h := range s.Properties {
				add("portfolio", s.Year, h.ID+".value", amount(h.Value))
				add("portfolio", s.Year, h.ID+".debt", amount(h.Debt))
				add("portfolio", s.Year, h.ID+".equity", amount(h.Equity))
			}
		}
		for _, acq := range p.Acquisitions {
			add("portfolio", acq.Year, acq.ID+".deposit", amount(acq.Deposit))
		}
	}

	if m := result.Mortgage; m != nil {
		add("mortgage", -1, "periodicPayment", amount(m.PeriodicPayment))
		add("mortgage", -1, "frequency", string(m.Frequency))
		add("mortgage", -1, "periods", strconv.Itoa(m.Periods))
		add("mortgage", -1, "totalRepayments", amount(m.TotalRepayments))
		add("mortgage", -1, "totalInterest", amount(m.TotalInterest))
		add("mortgage", -1, "comparisonRate", strconv.FormatFloat(m.ComparisonRate*100, 'f', 2, 64))
		add("mortgage", -1, "payoffDate", m.PayoffDate.Format("2006-01-02"))
		add("mortgage", -1, "actualPeriods", strconv.Itoa(m.ActualPeriods))
		add("mortgage", -1, "timeSavedMonths", strconv.FormatFloat(m.TimeSavedMonths, 'f', 1, 64))
		add("mortgage", -1, "interestSaved", amount(m.InterestSaved))
	}

	if result.BorrowingCapacity != nil {
		add("borrowing", -1, "capacity", amount(*result.BorrowingCapacity))
	}

	if g := result.NegativeGearing; g != nil {
		add("negativeGearing", -1, "rentalIncome", amount(g.RentalIncome))
		add("negativeGearing", -1, "rentalDeductions", amount(g.RentalDeductions))
		add("negativeGearing", -1, "newTaxableIncome", amount(g.NewTaxableIncome))
		add("negativeGearing", -1, "currentTax", amount(g.CurrentTax))
		add("negativeGearing", -1, "newTax", amount(g.NewTax))
		add("negativeGearing", -1, "taxSavings", amount(g.TaxSavings))
	}

	for _, note := range result.Notes {
		add("note", -1, "", note)
	}

	return rows
}
