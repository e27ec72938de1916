// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney formats a currency amount with thousands separators.
// e.g., 1234.5 -> "$1,235", -80 -> "-$80", 9.5 -> "$9.50"
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	if v < 10 && v != math.Trunc(v) {
		return printer.Sprintf("$%.2f", v)
	}
	return printer.Sprintf("$%.0f", math.Round(v))
}

// FormatCompactMoney formats large amounts with a suffix.
// e.g., 1234 -> "$1.2K", 2500000 -> "$2.5M"
func FormatCompactMoney(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, abs/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, abs/1_000)
	default:
		return sign + FormatMoney(abs)
	}
}

// FormatNumber formats a count with thousands separators.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(v float64) string {
	return printer.Sprintf("%.0f", math.Round(v))
}

// FormatPercent formats a 0-1 fraction as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatSignedPercent formats a human-form percentage with its sign.
// e.g., 10 -> "+10%", -2.5 -> "-2.5%"
func FormatSignedPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%+.0f%%", p)
	}
	return fmt.Sprintf("%+.1f%%", p)
}

// FormatDelta formats the difference between two amounts with a sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return FormatMoney(delta)
}
