package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/unitfield/internal/quantity"
	"github.com/rshade/unitfield/internal/units"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "html", want: KindHTML},
		{in: "HTML", want: KindHTML},
		{in: "label-key", want: KindLabelKey},
		{in: "label_key", want: KindLabelKey},
		{in: "value", want: KindLabelValue},
		{in: " label-value ", want: KindLabelValue},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Kind {
	t.Helper()
	k, err := ParseKind(s)
	require.NoError(t, err)
	return k
}

func TestFormatter_Number(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		in   float64
		want string
	}{
		{name: "english grouping", in: 1234.5, want: "1,234.5"},
		{name: "german grouping", opts: []Option{WithLocale(language.German)}, in: 1234.5, want: "1.234,5"},
		{name: "integer", in: 42, want: "42"},
		{name: "precision cap", opts: []Option{WithPrecision(2)}, in: 0.12345, want: "0.12"},
		{name: "negative precision ignored", opts: []Option{WithPrecision(-1)}, in: 0.5, want: "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.opts...).Number(tt.in))
		})
	}
}

func TestFormat(t *testing.T) {
	width := quantity.MustNew(units.Length(), quantity.WithInput(12.5), quantity.WithUnit("cm"))

	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{name: "label key", kind: KindLabelKey, want: "Width"},
		{name: "label value", kind: KindLabelValue, want: "12.5 cm"},
		{
			name: "html",
			kind: KindHTML,
			want: `<div class="row-fluid"><div class="span6">Width:</div>` +
				`<div class="span6"><strong>12.5 cm</strong></div></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.kind, "Width", width)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestFormat_LeavesBaseValueAlone(t *testing.T) {
	v := quantity.MustNew(units.Length(), quantity.WithInput(250), quantity.WithUnit("cm"))
	before := v.BaseValue()

	for _, kind := range []Kind{KindHTML, KindLabelKey, KindLabelValue} {
		Format(kind, "Length", v)
	}
	assert.InDelta(t, before, v.BaseValue(), 0)
}

func TestFormat_EscapesHTML(t *testing.T) {
	v := quantity.MustNew(units.Length(), quantity.WithInput(1))
	got := Format(KindHTML, `<b>"depth"</b>`, v)
	assert.Contains(t, got.Text, "&lt;b&gt;&#34;depth&#34;&lt;/b&gt;:")
	assert.NotContains(t, got.Text, "<b>")
}

func TestFormat_MissingInput(t *testing.T) {
	v := quantity.MustNew(units.Mass(), quantity.WithUnit("kg"))
	v.ClearInput()
	assert.Equal(t, "- kg", Format(KindLabelValue, "Weight", v).Text)
}

func TestFormat_AbbrevNotID(t *testing.T) {
	v := quantity.MustNew(units.Temperature(), quantity.WithInput(21))
	assert.Equal(t, "21 °C", Format(KindLabelValue, "Room", v).Text)
}

func TestFormat_Localized(t *testing.T) {
	v := quantity.MustNew(units.Volume(), quantity.WithInput(1500.25), quantity.WithUnit("dm3"))
	f := New(WithLocale(language.German))
	assert.Equal(t, "1.500,25 dm³", f.Format(KindLabelValue, "Tank", v).Text)
}
