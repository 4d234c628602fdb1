// Package sanitize turns locale-formatted numeric input into canonical
// decimal strings and parses them.
package sanitize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrParse indicates input that is not numeric after sanitization.
const ErrParse = constError("input is not a number")

// thousandsGroup is the digit count of a thousands group.
const thousandsGroup = 3

// Separators describes how a locale writes decimal numbers.
type Separators struct {
	// Decimal separates the integer and fractional parts.
	Decimal string `yaml:"decimal" json:"decimal"`

	// Thousands groups integer digits. Only stripped when UseThousands is set.
	Thousands string `yaml:"thousands" json:"thousands"`

	// UseThousands enables thousands separator handling.
	UseThousands bool `yaml:"use_thousands" json:"use_thousands"`
}

//nolint:gochecknoglobals // Read-only locale table.
var (
	localeTags = []language.Tag{
		language.English,
		language.German,
		language.MustParse("de-CH"),
		language.French,
		language.Italian,
		language.Spanish,
		language.Dutch,
		language.Portuguese,
		language.Polish,
		language.Russian,
	}

	localeSeparators = []Separators{
		{Decimal: ".", Thousands: ",", UseThousands: true},
		{Decimal: ",", Thousands: ".", UseThousands: true},
		{Decimal: ".", Thousands: "'", UseThousands: true},
		{Decimal: ",", Thousands: "\u202f", UseThousands: true},
		{Decimal: ",", Thousands: ".", UseThousands: true},
		{Decimal: ",", Thousands: ".", UseThousands: true},
		{Decimal: ",", Thousands: ".", UseThousands: true},
		{Decimal: ",", Thousands: ".", UseThousands: true},
		{Decimal: ",", Thousands: "\u00a0", UseThousands: true},
		{Decimal: ",", Thousands: "\u00a0", UseThousands: true},
	}

	localeMatcher = language.NewMatcher(localeTags)
)

// Default returns the separators for English: "." decimal, "," thousands.
func Default() Separators {
	return localeSeparators[0]
}

// ForLocale returns the separators of the closest supported locale.
// Unsupported locales fall back to Default.
func ForLocale(tag language.Tag) Separators {
	_, idx, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return Default()
	}
	return localeSeparators[idx]
}

// ForLocaleString parses a BCP 47 tag such as "de-AT" and returns its
// separators. An unparsable tag yields Default.
func ForLocaleString(locale string) Separators {
	tag, err := language.Parse(locale)
	if err != nil {
		return Default()
	}
	return ForLocale(tag)
}

// Sanitize rewrites value into canonical "integer.fractional" form.
//
// The value is split on the last decimal separator. Thousands separators,
// and their NFKD compatibility forms, are stripped from the integer part.
// When the thousands separator is "." and the integer part contains a
// single "." not followed by exactly three digits, that "." is kept as
// the decimal point.
func Sanitize(value string, seps Separators) string {
	var decimals string
	hasDecimals := false
	if seps.Decimal != "" {
		if i := strings.LastIndex(value, seps.Decimal); i >= 0 {
			decimals = value[i+len(seps.Decimal):]
			value = value[:i]
			hasDecimals = true
		}
	}

	if seps.UseThousands && seps.Thousands != "" && !ambiguousDot(value, seps.Thousands) {
		for _, sep := range thousandsForms(seps.Thousands) {
			value = strings.ReplaceAll(value, sep, "")
		}
	}

	if hasDecimals {
		return value + "." + decimals
	}
	return value
}

// ambiguousDot reports the case where a "." thousands separator is more
// likely a decimal point, e.g. "1.5" in a German locale.
func ambiguousDot(intPart, thousands string) bool {
	if thousands != "." || strings.Count(intPart, ".") != 1 {
		return false
	}
	last := intPart[strings.LastIndex(intPart, ".")+1:]
	return len(last) != thousandsGroup
}

func thousandsForms(sep string) []string {
	forms := []string{sep}
	if nfkd := norm.NFKD.String(sep); nfkd != sep {
		forms = append(forms, nfkd)
	}
	return forms
}

// ParseFloat sanitizes value and parses it as a float64.
// Empty, non-numeric, and non-finite input fails with ErrParse.
func ParseFloat(value string, seps Separators) (float64, error) {
	canonical := strings.TrimSpace(Sanitize(strings.TrimSpace(value), seps))
	if canonical == "" {
		return 0, fmt.Errorf("%w: empty input", ErrParse)
	}
	// strconv also reads Go literal forms such as 0x1p4 and 1_000.
	if strings.ContainsAny(canonical, "xX_") {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrParse, value)
	}

	f, err := strconv.ParseFloat(canonical, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrParse, value)
	}
	return f, nil
}
