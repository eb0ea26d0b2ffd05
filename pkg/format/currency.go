// Package format renders currency and rate values for human-readable output.
package format

import (
	"math"

	"github.com/lachho/property-sub000/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if amount <= -0.005 {
		return "-$" + NumericCurrency(math.Abs(amount))
	}
	return "$" + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if math.Abs(amount) < 0.005 {
		amount = 0
	}
	return printer().Sprintf("%.2f", amount)
}

// WholeCurrency drops the cents (e.g., "$610,000").
func WholeCurrency(amount float64) string {
	rounded := math.Round(amount)
	if rounded <= -1 {
		return "-$" + printer().Sprintf("%.0f", -rounded)
	}
	return "$" + printer().Sprintf("%.0f", math.Abs(rounded))
}

// Percent renders a 0-100 percentage with two decimals (e.g., "5.50%").
func Percent(percent float64) string {
	return printer().Sprintf("%.2f", percent) + "%"
}

// Rate renders a 0-1 fraction as a percentage.
func Rate(fraction float64) string {
	return Percent(mathutil.FractionToPercent(fraction))
}
