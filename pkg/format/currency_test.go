package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.567, "$1,234.57"},
		{1000000, "$1,000,000.00"},
		{-1234.56, "-$1,234.56"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-98765.4); got != "-98,765.40" {
		t.Errorf("NumericCurrency() = %q, expected %q", got, "-98,765.40")
	}
}

func TestWholeCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{610000, "$610,000"},
		{59999.5, "$60,000"},
		{-25000.4, "-$25,000"},
		{-0.2, "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := WholeCurrency(tt.amount); got != tt.expected {
				t.Errorf("WholeCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestPercentAndRate(t *testing.T) {
	if got := Percent(37); got != "37.00%" {
		t.Errorf("Percent(37) = %q", got)
	}
	if got := Rate(0.06); got != "6.00%" {
		t.Errorf("Rate(0.06) = %q", got)
	}
}
