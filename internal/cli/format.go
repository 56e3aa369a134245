package cli

import (
	"fmt"

	"github.com/fatih/color"
)

// FormatMoney formats a dollar amount with sign-based coloring.
func FormatMoney(amount float64) string {
	s := fmt.Sprintf("$%.2f", amount)
	if amount < 0 {
		s = fmt.Sprintf("-$%.2f", -amount)
		return color.RedString(s)
	}
	return color.GreenString(s)
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatIV formats a decimal implied volatility as a percentage.
func FormatIV(iv float64) string {
	return fmt.Sprintf("%.1f%%", iv*100)
}

// FormatConfidence colors a confidence value by band.
func FormatConfidence(confidence float64) string {
	s := fmt.Sprintf("%.2f", confidence)
	switch {
	case confidence >= 0.8:
		return color.GreenString(s)
	case confidence >= 0.5:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}
