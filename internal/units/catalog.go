package units

import (
	"math"
)

// Choice is one entry of a catalog's choice list, in catalog order.
type Choice struct {
	ID     string `json:"id" yaml:"id"`
	Abbrev string `json:"abbrev" yaml:"abbrev"`
}

// FactorChoice is the legacy projection that keyed choices by factor.
type FactorChoice struct {
	Factor float64 `json:"factor" yaml:"factor"`
	Abbrev string  `json:"abbrev" yaml:"abbrev"`
}

// Catalog is an ordered, immutable collection of the units of one physical quantity.
type Catalog struct {
	name  string
	label string
	units []Unit
	base  int
}

// NewCatalog validates units and returns an immutable catalog.
//
// It fails with ErrConfiguration when the catalog is empty, when an id is
// empty or duplicated, when a linear factor is not finite and positive, or
// when the catalog does not have exactly one base unit.
func NewCatalog(name, label string, units ...Unit) (*Catalog, error) {
	if len(units) == 0 {
		return nil, configErrorf("catalog %q has no units", name)
	}

	seen := make(map[string]struct{}, len(units))
	base := -1
	for i, u := range units {
		if u.ID == "" {
			return nil, configErrorf("catalog %q: unit at position %d has an empty id", name, i)
		}
		if _, dup := seen[u.ID]; dup {
			return nil, configErrorf("catalog %q: duplicate unit id %q", name, u.ID)
		}
		seen[u.ID] = struct{}{}

		if u.IsNonlinear() {
			continue
		}
		if math.IsNaN(u.Factor) || math.IsInf(u.Factor, 0) || u.Factor <= 0 {
			return nil, configErrorf("catalog %q: unit %q has invalid factor %v", name, u.ID, u.Factor)
		}
		if u.IsBase() {
			if base >= 0 {
				return nil, configErrorf("catalog %q: units %q and %q both have factor 1",
					name, units[base].ID, u.ID)
			}
			base = i
		}
	}
	if base < 0 {
		return nil, configErrorf("catalog %q has no base unit", name)
	}

	owned := make([]Unit, len(units))
	copy(owned, units)

	return &Catalog{name: name, label: label, units: owned, base: base}, nil
}

// MustCatalog is like NewCatalog but panics on error. Intended for
// package-level catalog literals.
func MustCatalog(name, label string, units ...Unit) *Catalog {
	c, err := NewCatalog(name, label, units...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the catalog's identifier (e.g., "length").
func (c *Catalog) Name() string { return c.name }

// Label returns the catalog's human-readable name.
func (c *Catalog) Label() string { return c.label }

// Len returns the number of units.
func (c *Catalog) Len() int { return len(c.units) }

// Units returns a copy of the units in catalog order.
func (c *Catalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// BaseUnit returns the unit with factor 1.0. ok is false only for a zero
// Catalog, since NewCatalog rejects catalogs without a base unit.
func (c *Catalog) BaseUnit() (Unit, bool) {
	if c == nil || len(c.units) == 0 {
		return Unit{}, false
	}
	return c.units[c.base], true
}

// Lookup returns the unit with the given id.
func (c *Catalog) Lookup(id string) (Unit, bool) {
	if c == nil {
		return Unit{}, false
	}
	for _, u := range c.units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// Has reports whether id is a unit of the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.Lookup(id)
	return ok
}

// Choices returns (id, abbrev) pairs in catalog order for UI binding.
func (c *Catalog) Choices() []Choice {
	out := make([]Choice, 0, len(c.units))
	for _, u := range c.units {
		out = append(out, Choice{ID: u.ID, Abbrev: u.Abbrev})
	}
	return out
}

// FactorChoices returns (factor, abbrev) pairs in catalog order.
func (c *Catalog) FactorChoices() []FactorChoice {
	out := make([]FactorChoice, 0, len(c.units))
	for _, u := range c.units {
		out = append(out, FactorChoice{Factor: u.Factor, Abbrev: u.Abbrev})
	}
	return out
}
