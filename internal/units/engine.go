package units

import (
	"math"
)

// FactorOf returns the conversion factor of the unit with the given id.
// ok is false when the id is not in the catalog, which keeps a missing unit
// distinguishable from a factor of 0.
func FactorOf(c *Catalog, id string) (float64, bool) {
	u, ok := c.Lookup(id)
	if !ok {
		return 0, false
	}
	return u.Factor, true
}

// Normalize converts value from the unit id to the catalog's base unit.
//
// Nonlinear units go through their ToBase function; linear units are
// multiplied by their factor. Returns ErrUnknownUnit if id is not in the
// catalog and ErrCalculationOverflow for non-finite input or results.
func Normalize(value float64, c *Catalog, id string) (float64, error) {
	if c == nil {
		return 0, configErrorf("nil catalog")
	}
	u, ok := c.Lookup(id)
	if !ok {
		return 0, unknownUnit(c, id)
	}
	if !isFinite(value) {
		return 0, ErrCalculationOverflow
	}

	result := u.toBase(value)
	if !isFinite(result) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// Denormalize converts a base value into the unit id.
// Converting into a nonlinear unit without FromBase is a configuration error.
func Denormalize(base float64, c *Catalog, id string) (float64, error) {
	if c == nil {
		return 0, configErrorf("nil catalog")
	}
	u, ok := c.Lookup(id)
	if !ok {
		return 0, unknownUnit(c, id)
	}
	if !isFinite(base) {
		return 0, ErrCalculationOverflow
	}

	result, ok := u.fromBase(base)
	if !ok {
		return 0, configErrorf("catalog %q: unit %q defines no inverse conversion", c.Name(), id)
	}
	if !isFinite(result) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// Convert converts value between two units of the same catalog.
//
// Identical ids return value unchanged. Linear pairs compute
// value * factorIn / factorOut. A nonlinear target must define FromBase,
// and a pair of nonlinear units must both define their inverses; otherwise
// Convert fails with ErrConfiguration.
func Convert(value float64, c *Catalog, in, out string) (float64, error) {
	if c == nil {
		return 0, configErrorf("nil catalog")
	}
	if in == out {
		if !c.Has(in) {
			return 0, unknownUnit(c, in)
		}
		return value, nil
	}

	uin, ok := c.Lookup(in)
	if !ok {
		return 0, unknownUnit(c, in)
	}
	uout, ok := c.Lookup(out)
	if !ok {
		return 0, unknownUnit(c, out)
	}
	if !isFinite(value) {
		return 0, ErrCalculationOverflow
	}

	if !uin.IsNonlinear() && !uout.IsNonlinear() {
		result := value * uin.Factor / uout.Factor
		if !isFinite(result) {
			return 0, ErrCalculationOverflow
		}
		return result, nil
	}

	if uin.IsNonlinear() && uout.IsNonlinear() && uin.FromBase == nil {
		return 0, configErrorf("catalog %q: cannot convert %q to %q, %q defines no inverse conversion",
			c.Name(), in, out, in)
	}

	base, err := Normalize(value, c, in)
	if err != nil {
		return 0, err
	}
	return Denormalize(base, c, out)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
