// Package format renders quantity values for display. Rendering never
// changes a value's base value.
package format

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rshade/unitfield/internal/quantity"
)

// DefaultPrecision is the maximum number of fraction digits displayed.
const DefaultPrecision = 6

// missingInput is displayed when a value has no input.
const missingInput = "-"

// Kind selects what Format renders.
type Kind int

const (
	// KindHTML renders a labelled row as HTML markup.
	KindHTML Kind = iota
	// KindLabelKey renders the field label alone.
	KindLabelKey
	// KindLabelValue renders the input followed by the unit abbreviation.
	KindLabelValue
)

// String returns the kind name accepted by ParseKind.
func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindLabelKey:
		return "label-key"
	case KindLabelValue:
		return "label-value"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "html", "label-key" or "label-value".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-")) {
	case "html":
		return KindHTML, nil
	case "label-key", "key":
		return KindLabelKey, nil
	case "label-value", "value":
		return KindLabelValue, nil
	default:
		return 0, fmt.Errorf("unknown format kind %q", s)
	}
}

// Result is a rendered value tagged with the kind that produced it.
type Result struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Formatter renders values with a locale-aware number printer.
type Formatter struct {
	printer   *message.Printer
	precision int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLocale formats numbers with the separators of tag.
func WithLocale(tag language.Tag) Option {
	return func(f *Formatter) {
		f.printer = message.NewPrinter(tag)
	}
}

// WithPrecision sets the maximum number of fraction digits. Negative
// values are ignored.
func WithPrecision(digits int) Option {
	return func(f *Formatter) {
		if digits >= 0 {
			f.precision = digits
		}
	}
}

// New returns a Formatter. The default locale is English.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		printer:   message.NewPrinter(language.English),
		precision: DefaultPrecision,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Number formats n with locale separators and at most the configured
// number of fraction digits.
func (f *Formatter) Number(n float64) string {
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(f.precision)))
}

// Input formats v's raw input, or "-" when there is none.
func (f *Formatter) Input(v *quantity.Value) string {
	input, ok := v.Input()
	if !ok {
		return missingInput
	}
	return f.Number(input)
}

// Format renders v as selected by kind. label is the field's display name.
func (f *Formatter) Format(kind Kind, label string, v *quantity.Value) Result {
	switch kind {
	case KindLabelKey:
		return Result{Kind: kind, Text: label}
	case KindLabelValue:
		return Result{Kind: kind, Text: f.labelValue(v)}
	case KindHTML:
		return Result{Kind: kind, Text: fmt.Sprintf(
			`<div class="row-fluid"><div class="span6">%s:</div>`+
				`<div class="span6"><strong>%s</strong></div></div>`,
			html.EscapeString(label), html.EscapeString(f.labelValue(v)))}
	default:
		return Result{Kind: kind}
	}
}

func (f *Formatter) labelValue(v *quantity.Value) string {
	abbrev := v.UnitID()
	if u, ok := v.Unit(); ok {
		abbrev = u.Abbrev
	}
	return f.Input(v) + " " + abbrev
}

// Format renders v with the default English formatter.
func Format(kind Kind, label string, v *quantity.Value) Result {
	return New().Format(kind, label, v)
}
