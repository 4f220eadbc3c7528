package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "USD", "$0.00"},
		{1234.5, "USD", "$1,234.50"},
		{-42.1, "USD", "-$42.10"},
		{999999.999, "USD", "$1,000,000.00"},
		{12.34, "EUR", "€12.34"},
		{5, "CHF", "CHF 5.00"},
	}

	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-12345, "-12,345"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatChange(t *testing.T) {
	if got := FormatChange(12.34); got != "+12.3%" {
		t.Errorf("FormatChange(12.34) = %q, want +12.3%%", got)
	}
	if got := FormatChange(-5); got != "-5.0%" {
		t.Errorf("FormatChange(-5) = %q, want -5.0%%", got)
	}
}

func TestShortLabel(t *testing.T) {
	if got := ShortLabel("Groceries", 20); got != "Groceries" {
		t.Errorf("no truncation expected, got %q", got)
	}
	if got := ShortLabel("Entertainment", 6); got != "Enter…" {
		t.Errorf("ShortLabel = %q, want Enter…", got)
	}
}
