// Package config loads unitfield settings from $UNITFIELD_HOME/config.yaml
// and the environment, and owns the process-wide logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rshade/unitfield/internal/sanitize"
	"github.com/rshade/unitfield/internal/units"
)

// Environment variables that override the config file.
const (
	EnvHome     = "UNITFIELD_HOME"
	EnvLogLevel = "UNITFIELD_LOG_LEVEL"
	EnvLocale   = "UNITFIELD_LOCALE"
	EnvDB       = "UNITFIELD_DB"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	configFileName = "config.yaml"
	dbFileName     = "unitfield.db"
	logFileName    = "unitfield.log"

	defaultPrecision = 6
	maxPrecision     = 15
)

// Config is the unitfield configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output" json:"output"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Locale   string         `yaml:"locale" json:"locale"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	Catalogs CatalogsConfig `yaml:"catalogs" json:"catalogs"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	// DefaultFormat is "table" or "json".
	DefaultFormat string `yaml:"format" json:"format"`

	// Precision is the maximum number of fraction digits displayed.
	Precision int `yaml:"precision" json:"precision"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// StoreConfig locates the record database.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// CatalogsConfig lists catalog documents merged over the builtin catalogs.
type CatalogsConfig struct {
	Files []string `yaml:"files,omitempty" json:"files,omitempty"`
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	cfg := &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{Level: zerolog.InfoLevel.String()},
		Locale:  "en",
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.Store.Path = filepath.Join(dir, dbFileName)
	}
	return cfg
}

// New returns the defaults overlaid with the config file, when present,
// and the environment. A config file that cannot be read is logged and
// skipped; use Load to surface the error.
func New() *Config {
	cfg := Default()
	path, err := GetConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
				log.Warn().Err(mergeErr).Str("path", path).Msg("ignoring unreadable config file")
			}
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load returns the defaults overlaid with the file at path and the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv applies UNITFIELD_* overrides read through lookupEnv.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLocale); ok && v != "" {
		c.Locale = v
	}
	if v, ok := lookupEnv(EnvDB); ok && v != "" {
		c.Store.Path = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{FormatTable, FormatJSON}, c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output.format %q must be %q or %q",
			c.Output.DefaultFormat, FormatTable, FormatJSON))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("output.precision %d must be between 0 and %d",
			c.Output.Precision, maxPrecision))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level %q: %w", c.Logging.Level, err))
	}
	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
		}
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path must be set"))
	}
	for _, file := range c.Catalogs.Files {
		if _, err := units.LoadCatalogFile(file); err != nil {
			errs = append(errs, fmt.Errorf("catalogs.files: %w", err))
		}
	}

	return errors.Join(errs...)
}

// LocaleTag returns the configured locale, English when unset or invalid.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Separators returns the input separators of the configured locale.
func (c *Config) Separators() sanitize.Separators {
	return sanitize.ForLocale(c.LocaleTag())
}

// Registry returns the builtin catalogs merged with the configured catalog
// files, in file order. A later file overrides an earlier same-named catalog.
func (c *Config) Registry() (*units.Registry, error) {
	reg := units.Builtin()
	for _, file := range c.Catalogs.Files {
		custom, err := units.LoadCatalogFile(file)
		if err != nil {
			return nil, err
		}
		reg = reg.Merge(custom)
	}
	return reg, nil
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
