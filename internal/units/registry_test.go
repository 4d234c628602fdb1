package units

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Catalogs(t *testing.T) {
	reg := Builtin()

	assert.Equal(t, []string{
		CatalogLength,
		CatalogArea,
		CatalogVolume,
		CatalogMass,
		CatalogTime,
		CatalogElectricCurrent,
		CatalogTemperature,
		CatalogAmountOfSubstance,
		CatalogLuminousIntensity,
	}, reg.Names())

	bases := map[string]string{
		CatalogLength:            "m",
		CatalogArea:              "m2",
		CatalogVolume:            "m3",
		CatalogMass:              "g",
		CatalogTime:              "s",
		CatalogElectricCurrent:   "A",
		CatalogTemperature:       "C",
		CatalogAmountOfSubstance: "mol",
		CatalogLuminousIntensity: "cd",
	}
	for name, want := range bases {
		c, ok := reg.Get(name)
		require.True(t, ok, name)
		base, ok := c.BaseUnit()
		require.True(t, ok, name)
		assert.Equal(t, want, base.ID, name)
	}
}

func TestBuiltin_IsMemoized(t *testing.T) {
	assert.Same(t, Builtin(), Builtin())
	assert.Same(t, Length(), Length())
}

func TestBuiltin_AtMostOneNonlinearUnitPerCatalog(t *testing.T) {
	for _, c := range Builtin().Catalogs() {
		nonlinear := 0
		for _, u := range c.Units() {
			if u.IsNonlinear() {
				nonlinear++
			}
		}
		assert.LessOrEqual(t, nonlinear, 1, c.Name())
	}
}

func TestBuiltin_Accessors(t *testing.T) {
	tests := []struct {
		name    string
		catalog *Catalog
		unit    string
		value   float64
		want    float64
	}{
		{name: "length", catalog: Length(), unit: "km", value: 1.5, want: 1500},
		{name: "area", catalog: Area(), unit: "ha", value: 2, want: 20000},
		{name: "volume", catalog: Volume(), unit: "dm3", value: 1, want: 0.001},
		{name: "mass", catalog: Mass(), unit: "kg", value: 5, want: 5000},
		{name: "decagram is ten grams", catalog: Mass(), unit: "dag", value: 1, want: 10},
		{name: "time", catalog: Time(), unit: "h", value: 2, want: 7200},
		{name: "microseconds", catalog: Time(), unit: "us", value: 1, want: 0.000001},
		{name: "current", catalog: ElectricCurrent(), unit: "mA", value: 250, want: 0.25},
		{name: "temperature", catalog: Temperature(), unit: "F", value: 212, want: 100},
		{name: "substance", catalog: AmountOfSubstance(), unit: "mol", value: 3, want: 3},
		{name: "luminous", catalog: LuminousIntensity(), unit: "cd", value: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.value, tt.catalog, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLoadCatalogs(t *testing.T) {
	doc := `
schema_version: 1.0.0
catalogs:
  - name: speed
    label: Speed
    units:
      - { id: mps, abbrev: m/s, label: metre per second, factor: 1 }
      - { id: kmh, abbrev: km/h, label: kilometre per hour, factor: 0.2777777777777778 }
  - name: legacy
    units:
      - { id: "1", abbrev: m, label: metre }
      - { id: "0.01", abbrev: cm, label: centimetre }
  - name: thermo
    units:
      - { id: C, label: degree Celsius, factor: 1 }
      - { id: K, label: kelvin, transform: kelvin }
`
	reg, err := LoadCatalogs(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"speed", "legacy", "thermo"}, reg.Names())

	speed := reg.MustGet("speed")
	got, err := Convert(36, speed, "kmh", "mps")
	require.NoError(t, err)
	assert.InDelta(t, 10, got, 1e-9)

	legacy := reg.MustGet("legacy")
	assert.Equal(t, "legacy", legacy.Label())
	got, err = Normalize(250, legacy, "0.01")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-12)

	thermo := reg.MustGet("thermo")
	k, ok := thermo.Lookup("K")
	require.True(t, ok)
	assert.Equal(t, "K", k.Abbrev, "abbrev defaults to id")
	got, err = Convert(0, thermo, "C", "K")
	require.NoError(t, err)
	assert.InDelta(t, 273.15, got, 1e-9)
}

func TestLoadCatalogs_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing schema version", doc: "catalogs: []\n"},
		{name: "unsupported major", doc: "schema_version: 2.0.0\ncatalogs: []\n"},
		{name: "invalid semver", doc: "schema_version: banana\ncatalogs: []\n"},
		{name: "no base unit", doc: `
schema_version: 1.0.0
catalogs:
  - name: broken
    units:
      - { id: cm, abbrev: cm, label: centimetre, factor: 0.01 }
`},
		{name: "unknown transform", doc: `
schema_version: 1.0.0
catalogs:
  - name: broken
    units:
      - { id: C, label: degree Celsius, factor: 1 }
      - { id: R, label: rankine, transform: rankine }
`},
		{name: "non numeric legacy id", doc: `
schema_version: 1.0.0
catalogs:
  - name: broken
    units:
      - { id: m, label: metre }
`},
		{name: "duplicate catalog", doc: `
schema_version: 1.0.0
catalogs:
  - name: dup
    units: [{ id: m, factor: 1 }]
  - name: dup
    units: [{ id: m, factor: 1 }]
`},
		{name: "missing catalog name", doc: `
schema_version: 1.0.0
catalogs:
  - units: [{ id: m, factor: 1 }]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalogs(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoadCatalogs_UnknownField(t *testing.T) {
	doc := "schema_version: 1.0.0\ncatalogs:\n  - name: x\n    colour: red\n"
	_, err := LoadCatalogs(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing catalog document")
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := "schema_version: 1.0.0\ncatalogs:\n  - name: length\n    units:\n      - { id: m, factor: 1 }\n      - { id: ft, abbrev: ft, label: foot, factor: 0.3048 }\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	reg, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.True(t, reg.MustGet("length").Has("ft"))

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRegistry_Merge(t *testing.T) {
	custom, err := NewRegistry(
		MustCatalog("length", "Imperial length",
			NewUnit("m", "m", "metre", 1),
			NewUnit("ft", "ft", "foot", 0.3048),
		),
		MustCatalog("speed", "Speed", NewUnit("mps", "m/s", "metre per second", 1)),
	)
	require.NoError(t, err)

	merged := Builtin().Merge(custom)

	names := merged.Names()
	assert.Equal(t, CatalogLength, names[0], "override keeps position")
	assert.Equal(t, "speed", names[len(names)-1])
	assert.Equal(t, "Imperial length", merged.MustGet(CatalogLength).Label())

	// The builtin registry is untouched.
	assert.Equal(t, "Length", Builtin().MustGet(CatalogLength).Label())
	assert.Same(t, Builtin(), Builtin().Merge(nil))
}

func TestRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(Length(), Length())
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewRegistry(nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, ok := Builtin().Get("nope")
	assert.False(t, ok)
	assert.Panics(t, func() { Builtin().MustGet("nope") })
}
