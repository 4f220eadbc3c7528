// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// currencySymbols maps ISO codes to display symbols for common currencies.
// Unknown codes fall back to "<code> " as a prefix.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
}

// FormatMoney formats an amount in the given currency, always with two
// decimals. e.g., (1234.5, "USD") -> "$1,234.50"
func FormatMoney(amount float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, FormatNumber(whole), frac)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a percentage to one decimal place. Takes the value
// already scaled to 0-100.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatShare formats a 0-1 fraction as a percentage.
func FormatShare(f float64) string {
	return FormatPercent(f * 100)
}

// FormatChange formats a signed percent change with an explicit sign,
// e.g. 12.34 -> "+12.3%".
func FormatChange(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// FormatDelta formats a money delta with sign.
func FormatDelta(current, previous float64, currency string) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta, currency)
	}
	return "-" + FormatMoney(-delta, currency)
}

// ShortLabel truncates a label to max runes with an ellipsis.
func ShortLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
