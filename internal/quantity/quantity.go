// Package quantity holds a measured value together with its unit and the
// base value derived from them.
//
// A Value is persisted as three independent fields: the raw input, the unit
// id and the base value. The base value is recomputed by every committed
// change to the input or the unit and has no setter.
//
// A Value is not safe for concurrent mutation. Its catalog is shared and
// read-only.
package quantity

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/rshade/unitfield/internal/sanitize"
	"github.com/rshade/unitfield/internal/units"
)

// rescaleDigits is the number of significant digits kept when an input is
// rescaled to another unit, which hides float oscillation such as
// 299.99999999999994.
const rescaleDigits = 15

// Fields is the three-column representation of a Value.
type Fields struct {
	// Input is the raw value as entered, nil when no value was entered.
	Input *float64 `json:"input" yaml:"input"`

	// Unit is the id of the unit Input is expressed in.
	Unit string `json:"unit" yaml:"unit"`

	// Base is Input expressed in the catalog's base unit.
	Base float64 `json:"base_value" yaml:"base_value"`
}

// Value is a raw input tagged with a unit of one catalog.
type Value struct {
	catalog  *units.Catalog
	input    float64
	hasInput bool
	unitID   string
	base     float64

	recomputes int
}

// Option configures a Value at construction.
type Option func(*Value)

// WithInput sets the raw input. Defaults to 0.
func WithInput(input float64) Option {
	return func(v *Value) {
		v.input = input
		v.hasInput = true
	}
}

// WithUnit sets the unit id. Defaults to the catalog's base unit.
func WithUnit(id string) Option {
	return func(v *Value) {
		v.unitID = id
	}
}

// New returns a Value of catalog c. Without options the value is 0 in the
// catalog's base unit.
//
// It fails with units.ErrConfiguration when c has no base unit and with
// units.ErrUnknownUnit when the requested unit is not in c.
func New(c *units.Catalog, opts ...Option) (*Value, error) {
	base, ok := c.BaseUnit()
	if !ok {
		return nil, configError(c)
	}

	v := &Value{catalog: c, hasInput: true, unitID: base.ID}
	for _, opt := range opts {
		opt(v)
	}
	if !c.Has(v.unitID) {
		return nil, &units.UnknownUnitError{Catalog: c.Name(), UnitID: v.unitID}
	}

	v.recompute()
	return v, nil
}

// MustNew is like New but panics on error.
func MustNew(c *units.Catalog, opts ...Option) *Value {
	v, err := New(c, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Restore rebuilds a Value from persisted fields. Unlike New it accepts a
// unit id the catalog no longer knows; such a value has a base value of 0.
func Restore(c *units.Catalog, input *float64, unitID string) *Value {
	v := &Value{catalog: c, unitID: unitID}
	if input != nil {
		v.input = *input
		v.hasInput = true
	}
	if !c.Has(unitID) {
		log.Warn().
			Str("catalog", catalogName(c)).
			Str("unit", unitID).
			Msg("restored value references an unknown unit, base value is 0")
	}
	v.recompute()
	return v
}

// Catalog returns the catalog the value's unit belongs to.
func (v *Value) Catalog() *units.Catalog { return v.catalog }

// Input returns the raw input. ok is false when no input is set.
func (v *Value) Input() (float64, bool) {
	return v.input, v.hasInput
}

// UnitID returns the id of the selected unit.
func (v *Value) UnitID() string { return v.unitID }

// Unit returns the selected unit.
func (v *Value) Unit() (units.Unit, bool) {
	return v.catalog.Lookup(v.unitID)
}

// BaseValue returns the input expressed in the catalog's base unit.
func (v *Value) BaseValue() float64 { return v.base }

// Fields returns the three persisted columns.
func (v *Value) Fields() Fields {
	f := Fields{Unit: v.unitID, Base: v.base}
	if v.hasInput {
		input := v.input
		f.Input = &input
	}
	return f
}

// SetInput sets the raw input and recomputes the base value.
func (v *Value) SetInput(input float64) {
	v.input = input
	v.hasInput = true
	v.recompute()
}

// ClearInput removes the raw input. The base value becomes 0.
func (v *Value) ClearInput() {
	v.input = 0
	v.hasInput = false
	v.recompute()
}

// SetText parses locale-formatted text and sets it as the raw input.
//
// Text that is not numeric after sanitization clears the input, leaving a
// base value of 0, instead of returning an error: partially typed input
// must not corrupt downstream computation. The result reports whether the
// text parsed.
func (v *Value) SetText(text string, seps sanitize.Separators) bool {
	input, err := sanitize.ParseFloat(text, seps)
	if err != nil {
		log.Debug().Err(err).Str("text", text).Msg("input not numeric, base value reset to 0")
		v.ClearInput()
		return false
	}
	v.SetInput(input)
	return true
}

// SetUnit selects another unit without converting the input.
// An unknown id fails with units.ErrUnknownUnit and leaves v unchanged.
func (v *Value) SetUnit(id string) error {
	if !v.catalog.Has(id) {
		return &units.UnknownUnitError{Catalog: catalogName(v.catalog), UnitID: id}
	}
	v.unitID = id
	v.recompute()
	return nil
}

// Rescale selects another unit and converts the input so the physical
// quantity is preserved. The converted input is rounded to 15
// significant digits. On error v is unchanged.
func (v *Value) Rescale(id string) error {
	if !v.hasInput || id == v.unitID {
		return v.SetUnit(id)
	}

	converted, err := units.Convert(v.input, v.catalog, v.unitID, id)
	if err != nil {
		return err
	}

	v.input = roundSignificant(converted, rescaleDigits)
	v.unitID = id
	v.recompute()
	return nil
}

// String formats the value as "<input> <abbrev>".
func (v *Value) String() string {
	abbrev := v.unitID
	if u, ok := v.Unit(); ok {
		abbrev = u.Abbrev
	}
	if !v.hasInput {
		return "- " + abbrev
	}
	return strconv.FormatFloat(v.input, 'g', -1, 64) + " " + abbrev
}

// recompute derives the base value from the current input and unit:
// the normalized input when the input is set and the unit is known, else 0.
func (v *Value) recompute() {
	v.recomputes++
	v.base = 0
	if !v.hasInput {
		return
	}

	base, err := units.Normalize(v.input, v.catalog, v.unitID)
	if err != nil {
		log.Debug().Err(err).
			Str("catalog", catalogName(v.catalog)).
			Str("unit", v.unitID).
			Msg("base value reset to 0")
		return
	}
	v.base = base
}

// roundSignificant rounds f to the given number of significant digits.
func roundSignificant(f float64, digits int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', digits, 64), 64)
	if err != nil {
		return f
	}
	return rounded
}

func catalogName(c *units.Catalog) string {
	if c == nil {
		return ""
	}
	return c.Name()
}

func configError(c *units.Catalog) error {
	return fmt.Errorf("%w: catalog %q has no base unit", units.ErrConfiguration, catalogName(c))
}
