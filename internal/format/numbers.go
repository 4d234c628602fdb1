package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formats catalog columns in English regardless of the configured
// locale, so catalog listings are machine-comparable.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFactor formats a conversion factor with thousand separators,
// widening the fraction so factors below 1 keep DefaultPrecision
// significant digits.
// Example: FormatFactor(1e-9) returns "0.000000001".
func FormatFactor(f float64) string {
	digits := DefaultPrecision
	if abs := math.Abs(f); abs > 0 && abs < 1 {
		digits += int(-math.Floor(math.Log10(abs))) - 1
	}
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(digits)))
}
