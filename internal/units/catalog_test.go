package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Validation(t *testing.T) {
	celsius := func(x float64) float64 { return x }

	tests := []struct {
		name  string
		units []Unit
	}{
		{name: "no units", units: nil},
		{name: "no base unit", units: []Unit{
			NewUnit("cm", "cm", "centimetre", 0.01),
			NewUnit("km", "km", "kilometre", 1000),
		}},
		{name: "two base units", units: []Unit{
			NewUnit("m", "m", "metre", 1),
			NewUnit("metre", "m", "metre", 1),
		}},
		{name: "duplicate id", units: []Unit{
			NewUnit("m", "m", "metre", 1),
			NewUnit("m", "m", "metre again", 10),
		}},
		{name: "empty id", units: []Unit{
			NewUnit("", "m", "metre", 1),
		}},
		{name: "zero factor on linear unit", units: []Unit{
			NewUnit("m", "m", "metre", 1),
			NewUnit("x", "x", "nothing", 0),
		}},
		{name: "negative factor", units: []Unit{
			NewUnit("m", "m", "metre", 1),
			NewUnit("x", "x", "inverted", -1),
		}},
		{name: "only nonlinear units", units: []Unit{
			NewNonlinearUnit("C", "°C", "degree Celsius", celsius, celsius),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog("broken", "Broken", tt.units...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Nil(t, c)
		})
	}
}

func TestMustCatalog_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCatalog("broken", "Broken", NewUnit("cm", "cm", "centimetre", 0.01))
	})
}

func TestCatalog_BaseUnit(t *testing.T) {
	c := lengthCatalog(t)

	base, ok := c.BaseUnit()
	require.True(t, ok)
	assert.Equal(t, "m", base.ID)
	assert.True(t, base.IsBase())

	var zero *Catalog
	_, ok = zero.BaseUnit()
	assert.False(t, ok)
}

func TestCatalog_BaseUnitIgnoresNonlinearSentinel(t *testing.T) {
	c, err := NewCatalog("temp", "Temperature",
		Unit{ID: "F", Abbrev: "°F", Label: "degree Fahrenheit", Factor: 1,
			ToBase: func(x float64) float64 { return (x - 32) / 1.8 }},
		NewUnit("C", "°C", "degree Celsius", 1),
	)
	require.NoError(t, err)

	base, ok := c.BaseUnit()
	require.True(t, ok)
	assert.Equal(t, "C", base.ID)
}

func TestCatalog_Choices(t *testing.T) {
	c := MustCatalog("length", "Length",
		NewUnit("mm", "mm", "millimetre", 0.001),
		NewUnit("cm", "cm", "centimetre", 0.01),
		NewUnit("dm", "dm", "decimetre", 0.1),
		NewUnit("m", "m", "metre", 1),
	)

	assert.Equal(t, []Choice{
		{ID: "mm", Abbrev: "mm"},
		{ID: "cm", Abbrev: "cm"},
		{ID: "dm", Abbrev: "dm"},
		{ID: "m", Abbrev: "m"},
	}, c.Choices())

	assert.Equal(t, []FactorChoice{
		{Factor: 0.001, Abbrev: "mm"},
		{Factor: 0.01, Abbrev: "cm"},
		{Factor: 0.1, Abbrev: "dm"},
		{Factor: 1, Abbrev: "m"},
	}, c.FactorChoices())
}

func TestCatalog_IsImmutable(t *testing.T) {
	input := []Unit{
		NewUnit("cm", "cm", "centimetre", 0.01),
		NewUnit("m", "m", "metre", 1),
	}
	c := MustCatalog("length", "Length", input...)

	input[0].Factor = 42
	got := c.Units()
	got[1].Factor = 42

	factor, ok := FactorOf(c, "cm")
	require.True(t, ok)
	assert.InDelta(t, 0.01, factor, 0)

	base, _ := c.BaseUnit()
	assert.InDelta(t, 1.0, base.Factor, 0)
}

func TestCatalog_LookupByIDNotPosition(t *testing.T) {
	c := MustCatalog("mass", "Mass",
		NewUnit("kg", "kg", "kilogram", 1000),
		NewUnit("g", "g", "gram", 1),
	)

	u, ok := c.Lookup("g")
	require.True(t, ok)
	assert.Equal(t, "gram", u.Label)
	assert.True(t, c.Has("kg"))
	assert.False(t, c.Has("t"))
	assert.Equal(t, 2, c.Len())
}

func TestNewLegacyUnit(t *testing.T) {
	u, err := NewLegacyUnit("0.01", "cm", "centimetre")
	require.NoError(t, err)
	assert.Equal(t, "0.01", u.ID)
	assert.InDelta(t, 0.01, u.Factor, 0)

	_, err = NewLegacyUnit("cm", "cm", "centimetre")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewLegacyUnit("NaN", "x", "not a number")
	assert.ErrorIs(t, err, ErrConfiguration)
}
