package analytics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders v with comma thousands separators and no decimals,
// e.g. 1234567.4 => "1,234,567".
func FormatAmount(v float64) string {
	return formatNumber("%.0f", v)
}

// FormatPercent renders v with one decimal place, e.g. 16.666 => "16.7".
func FormatPercent(v float64) string {
	return formatNumber("%.1f", v)
}

func formatNumber(format string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return printer.Sprintf(format, v)
}
