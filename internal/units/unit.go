// Package units provides measurement unit catalogs and the conversion engine
// that turns a (value, unit) pair into a unit-independent base value.
//
// Every catalog groups the interchangeable units of one physical quantity
// (length, mass, time, ...) and has exactly one base unit with factor 1.0.
// Catalogs are immutable once built and are safe for concurrent reads.
package units

import (
	"math"
	"strconv"
	"strings"
)

// BaseFactor is the conversion factor that marks a catalog's base unit.
const BaseFactor = 1.0

// ConvertFunc is a pure one-argument numeric conversion.
type ConvertFunc func(float64) float64

// Unit describes one measurement unit within a catalog.
type Unit struct {
	// ID is the stable identifier used for persistence and lookup.
	ID string

	// Abbrev is the short display string (e.g., "cm").
	Abbrev string

	// Label is the human-readable name (e.g., "centimetre").
	Label string

	// Factor converts to the base unit by multiplication: base = value * Factor.
	// Nonlinear units may leave it as a sentinel (0).
	Factor float64

	// ToBase overrides Factor when converting to the base unit.
	ToBase ConvertFunc

	// FromBase is the inverse of ToBase. Required to convert into a nonlinear unit.
	FromBase ConvertFunc
}

// NewUnit returns a linear unit.
func NewUnit(id, abbrev, label string, factor float64) Unit {
	return Unit{ID: id, Abbrev: abbrev, Label: label, Factor: factor}
}

// NewNonlinearUnit returns a unit converted through dedicated functions.
// fromBase may be nil when the unit is only ever converted to base.
func NewNonlinearUnit(id, abbrev, label string, toBase, fromBase ConvertFunc) Unit {
	return Unit{ID: id, Abbrev: abbrev, Label: label, ToBase: toBase, FromBase: fromBase}
}

// NewLegacyUnit builds a unit whose numeric id doubles as its factor, the
// way early catalogs keyed units by factor. A non-numeric id is a
// configuration error.
func NewLegacyUnit(id, abbrev, label string) (Unit, error) {
	factor, err := strconv.ParseFloat(strings.TrimSpace(id), 64)
	if err != nil || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Unit{}, configErrorf("legacy unit id %q is not numeric", id)
	}
	return NewUnit(id, abbrev, label, factor), nil
}

// IsNonlinear reports whether the unit converts through ToBase instead of Factor.
func (u Unit) IsNonlinear() bool {
	return u.ToBase != nil
}

// IsBase reports whether u is a linear unit with factor 1.0.
func (u Unit) IsBase() bool {
	return !u.IsNonlinear() && u.Factor == BaseFactor
}

// toBase converts value from u to the catalog's base unit.
func (u Unit) toBase(value float64) float64 {
	if u.ToBase != nil {
		return u.ToBase(value)
	}
	return value * u.Factor
}

// fromBase converts a base value into u. ok is false when u is nonlinear
// and has no inverse.
func (u Unit) fromBase(base float64) (float64, bool) {
	if u.IsNonlinear() {
		if u.FromBase == nil {
			return 0, false
		}
		return u.FromBase(base), true
	}
	return base / u.Factor, true
}
