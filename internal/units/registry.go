package units

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the semver constraint a catalog document's
// schema_version must satisfy.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

//go:embed catalogs.yaml
var builtinCatalogs []byte

// transforms holds the nonlinear conversions catalog documents can refer to
// by name. All convert to a Celsius base.
//
//nolint:gochecknoglobals // Read-only lookup table.
var transforms = map[string][2]ConvertFunc{
	"fahrenheit": {
		func(f float64) float64 { return (f - 32) / 1.8 },
		func(c float64) float64 { return c*1.8 + 32 },
	},
	"kelvin": {
		func(k float64) float64 { return k - 273.15 },
		func(c float64) float64 { return c + 273.15 },
	},
}

type unitDef struct {
	ID        string   `yaml:"id"`
	Abbrev    string   `yaml:"abbrev"`
	Label     string   `yaml:"label"`
	Factor    *float64 `yaml:"factor"`
	Transform string   `yaml:"transform"`
}

type catalogDef struct {
	Name  string    `yaml:"name"`
	Label string    `yaml:"label"`
	Units []unitDef `yaml:"units"`
}

type catalogDocument struct {
	SchemaVersion string       `yaml:"schema_version"`
	Catalogs      []catalogDef `yaml:"catalogs"`
}

// Registry is an ordered, immutable set of catalogs keyed by name.
type Registry struct {
	catalogs []*Catalog
}

// NewRegistry builds a registry from catalogs. Duplicate names are a
// configuration error.
func NewRegistry(catalogs ...*Catalog) (*Registry, error) {
	seen := make(map[string]struct{}, len(catalogs))
	for _, c := range catalogs {
		if c == nil {
			return nil, configErrorf("nil catalog in registry")
		}
		if _, dup := seen[c.Name()]; dup {
			return nil, configErrorf("duplicate catalog %q", c.Name())
		}
		seen[c.Name()] = struct{}{}
	}
	owned := make([]*Catalog, len(catalogs))
	copy(owned, catalogs)
	return &Registry{catalogs: owned}, nil
}

// LoadCatalogs parses a YAML catalog document and builds every catalog in it.
// Any invalid catalog fails the whole document.
func LoadCatalogs(r io.Reader) (*Registry, error) {
	var doc catalogDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing catalog document: %w", err)
	}

	if err := checkSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}

	catalogs := make([]*Catalog, 0, len(doc.Catalogs))
	for _, def := range doc.Catalogs {
		c, err := def.build()
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, c)
	}
	return NewRegistry(catalogs...)
}

// LoadCatalogFile reads a catalog document from path.
func LoadCatalogFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file %s: %w", path, err)
	}
	defer f.Close()

	reg, err := LoadCatalogs(f)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file %s: %w", path, err)
	}
	return reg, nil
}

func checkSchemaVersion(raw string) error {
	if raw == "" {
		return configErrorf("catalog document has no schema_version")
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return configErrorf("invalid schema_version %q: %v", raw, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return configErrorf("schema_version %s does not satisfy %s", v, SupportedSchema)
	}
	return nil
}

func (d catalogDef) build() (*Catalog, error) {
	if d.Name == "" {
		return nil, configErrorf("catalog without a name")
	}
	list := make([]Unit, 0, len(d.Units))
	for _, ud := range d.Units {
		u, err := ud.build(d.Name)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	label := d.Label
	if label == "" {
		label = d.Name
	}
	return NewCatalog(d.Name, label, list...)
}

func (d unitDef) build(catalog string) (Unit, error) {
	abbrev := d.Abbrev
	if abbrev == "" {
		abbrev = d.ID
	}
	switch {
	case d.Transform != "":
		fns, ok := transforms[d.Transform]
		if !ok {
			return Unit{}, configErrorf("catalog %q: unit %q uses unknown transform %q",
				catalog, d.ID, d.Transform)
		}
		u := NewNonlinearUnit(d.ID, abbrev, d.Label, fns[0], fns[1])
		if d.Factor != nil {
			u.Factor = *d.Factor
		}
		return u, nil
	case d.Factor != nil:
		return NewUnit(d.ID, abbrev, d.Label, *d.Factor), nil
	default:
		return NewLegacyUnit(d.ID, abbrev, d.Label)
	}
}

// Get returns the catalog with the given name.
func (r *Registry) Get(name string) (*Catalog, bool) {
	for _, c := range r.catalogs {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// MustGet returns the named catalog or panics.
func (r *Registry) MustGet(name string) *Catalog {
	c, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("units: catalog %q not registered", name))
	}
	return c
}

// Names returns catalog names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		names = append(names, c.Name())
	}
	return names
}

// Catalogs returns the catalogs in registry order.
func (r *Registry) Catalogs() []*Catalog {
	out := make([]*Catalog, len(r.catalogs))
	copy(out, r.catalogs)
	return out
}

// Merge returns a new registry with other's catalogs added. A catalog in
// other replaces the same-named catalog of r in place; new names are appended.
func (r *Registry) Merge(other *Registry) *Registry {
	if other == nil {
		return r
	}
	merged := make([]*Catalog, len(r.catalogs))
	copy(merged, r.catalogs)

	for _, c := range other.catalogs {
		replaced := false
		for i, existing := range merged {
			if existing.Name() == c.Name() {
				log.Debug().Str("catalog", c.Name()).Msg("custom catalog overrides builtin")
				merged[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, c)
		}
	}
	return &Registry{catalogs: merged}
}

//nolint:gochecknoglobals // Process-wide immutable registry, built once.
var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the registry of shipped catalogs. It is built from the
// embedded catalog document on first use and never mutated afterwards.
// A broken embedded document is a programming error and panics.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		reg, err := LoadCatalogs(bytes.NewReader(builtinCatalogs))
		if err != nil {
			panic(fmt.Sprintf("units: builtin catalogs: %v", err))
		}
		builtin = reg
	})
	return builtin
}

// Shipped catalog names.
const (
	CatalogLength            = "length"
	CatalogArea              = "area"
	CatalogVolume            = "volume"
	CatalogMass              = "mass"
	CatalogTime              = "time"
	CatalogElectricCurrent   = "electric_current"
	CatalogTemperature       = "temperature"
	CatalogAmountOfSubstance = "amount_of_substance"
	CatalogLuminousIntensity = "luminous_intensity"
)

// Length returns the builtin length catalog (base unit: metre).
func Length() *Catalog { return Builtin().MustGet(CatalogLength) }

// Area returns the builtin square measure catalog (base unit: square metre).
func Area() *Catalog { return Builtin().MustGet(CatalogArea) }

// Volume returns the builtin solid measure catalog (base unit: cubic metre).
func Volume() *Catalog { return Builtin().MustGet(CatalogVolume) }

// Mass returns the builtin mass catalog (base unit: gram).
func Mass() *Catalog { return Builtin().MustGet(CatalogMass) }

// Time returns the builtin time catalog (base unit: second).
func Time() *Catalog { return Builtin().MustGet(CatalogTime) }

// ElectricCurrent returns the builtin electric current catalog (base unit: ampere).
func ElectricCurrent() *Catalog { return Builtin().MustGet(CatalogElectricCurrent) }

// Temperature returns the builtin temperature catalog (base unit: degree Celsius).
func Temperature() *Catalog { return Builtin().MustGet(CatalogTemperature) }

// AmountOfSubstance returns the builtin amount of substance catalog (base unit: mole).
func AmountOfSubstance() *Catalog { return Builtin().MustGet(CatalogAmountOfSubstance) }

// LuminousIntensity returns the builtin luminous intensity catalog (base unit: candela).
func LuminousIntensity() *Catalog { return Builtin().MustGet(CatalogLuminousIntensity) }
