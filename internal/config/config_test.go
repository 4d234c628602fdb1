package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rshade/unitfield/internal/units"
)

const speedCatalog = `
schema_version: 1.0.0
catalogs:
  - name: speed
    units:
      - { id: mps, abbrev: m/s, factor: 1 }
      - { id: kmh, abbrev: km/h, factor: 0.2777777777777778 }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	home := stubHome(t)

	cfg := Default()
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, 6, cfg.Output.Precision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, filepath.Join(home, "unitfield.db"), cfg.Store.Path)
	assert.NoError(t, cfg.Validate())
}

func TestNew_ReadsConfigFile(t *testing.T) {
	home := stubHome(t)
	writeFile(t, home, "config.yaml", `
output:
  format: json
  precision: 3
locale: de
`)

	cfg := New()
	assert.Equal(t, FormatJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, 3, cfg.Output.Precision)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestNew_BrokenFileFallsBackToDefaults(t *testing.T) {
	home := stubHome(t)
	writeFile(t, home, "config.yaml", "{{{{")

	cfg := New()
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
}

func TestLoad(t *testing.T) {
	dir := stubHome(t)

	cfg, err := Load(writeFile(t, dir, "custom.yaml", "locale: fr\n"))
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Locale)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel: "debug",
		EnvLocale:   "de-CH",
		EnvDB:       "/tmp/override.db",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := &Config{Logging: LoggingConfig{Level: "info"}, Locale: "en"}
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "de-CH", cfg.Locale)
	assert.Equal(t, "/tmp/override.db", cfg.Store.Path)
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := &Config{Locale: "en"}
	cfg.ApplyEnv(func(string) (string, bool) { return "", true })
	assert.Equal(t, "en", cfg.Locale)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", speedCatalog)
	bad := writeFile(t, dir, "bad.yaml", "schema_version: 2.0.0\ncatalogs: []\n")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "valid with catalogs", mutate: func(c *Config) { c.Catalogs.Files = []string{good} }},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "xml" },
			wantErr: "output.format",
		},
		{
			name:    "precision too high",
			mutate:  func(c *Config) { c.Output.Precision = 16 },
			wantErr: "output.precision",
		},
		{
			name:    "negative precision",
			mutate:  func(c *Config) { c.Output.Precision = -1 },
			wantErr: "output.precision",
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name:    "bad locale",
			mutate:  func(c *Config) { c.Locale = "not a locale" },
			wantErr: "locale",
		},
		{
			name:    "no store",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: "store.path",
		},
		{
			name:    "bad catalog file",
			mutate:  func(c *Config) { c.Catalogs.Files = []string{bad} },
			wantErr: "catalogs.files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Output:  OutputConfig{DefaultFormat: FormatTable, Precision: 6},
				Logging: LoggingConfig{Level: "info"},
				Locale:  "en",
				Store:   StoreConfig{Path: "/tmp/unitfield.db"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := &Config{
		Output:  OutputConfig{DefaultFormat: "xml", Precision: 99},
		Logging: LoggingConfig{Level: "info"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
	assert.Contains(t, err.Error(), "output.precision")
	assert.Contains(t, err.Error(), "store.path")
}

func TestSeparators(t *testing.T) {
	tests := []struct {
		locale      string
		wantTag     language.Tag
		wantDecimal string
	}{
		{locale: "en", wantTag: language.English, wantDecimal: "."},
		{locale: "de", wantTag: language.German, wantDecimal: ","},
		{locale: "", wantTag: language.English, wantDecimal: "."},
		{locale: "not a locale", wantTag: language.English, wantDecimal: "."},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			cfg := &Config{Locale: tt.locale}
			assert.Equal(t, tt.wantTag, cfg.LocaleTag())
			assert.Equal(t, tt.wantDecimal, cfg.Separators().Decimal)
		})
	}
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Catalogs: CatalogsConfig{Files: []string{writeFile(t, dir, "speed.yaml", speedCatalog)}}}

	reg, err := cfg.Registry()
	require.NoError(t, err)

	_, ok := reg.Get(units.CatalogLength)
	assert.True(t, ok, "builtin catalogs are kept")
	speed, ok := reg.Get("speed")
	require.True(t, ok)
	assert.True(t, speed.Has("kmh"))
}

func TestRegistry_NoFilesIsBuiltin(t *testing.T) {
	reg, err := (&Config{}).Registry()
	require.NoError(t, err)
	assert.Same(t, units.Builtin(), reg)
}

func TestRegistry_BadFile(t *testing.T) {
	cfg := &Config{Catalogs: CatalogsConfig{Files: []string{"/nonexistent/catalogs.yaml"}}}
	_, err := cfg.Registry()
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	stubHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Locale = "it"
	cfg.Catalogs.Files = []string{"/a.yaml"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
