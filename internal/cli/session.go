package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/config"
	"github.com/rshade/unitfield/internal/format"
	"github.com/rshade/unitfield/internal/sanitize"
	"github.com/rshade/unitfield/internal/store"
	"github.com/rshade/unitfield/internal/units"
)

// session bundles the configuration-derived state a command needs.
type session struct {
	cfg       *config.Config
	registry  *units.Registry
	formatter *format.Formatter
	seps      sanitize.Separators
	output    string
}

// newSession resolves the global configuration, catalogs and output format.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg := config.GetGlobalConfig()

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("loading catalogs: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = cfg.Output.DefaultFormat
	}
	output = strings.ToLower(output)
	if output != config.FormatTable && output != config.FormatJSON {
		return nil, fmt.Errorf("unsupported output format %q (use %s or %s)",
			output, config.FormatTable, config.FormatJSON)
	}

	return &session{
		cfg:      cfg,
		registry: reg,
		formatter: format.New(
			format.WithLocale(cfg.LocaleTag()),
			format.WithPrecision(cfg.Output.Precision),
		),
		seps:   cfg.Separators(),
		output: output,
	}, nil
}

func (s *session) json() bool { return s.output == config.FormatJSON }

// parseNumber parses a number written in the configured locale.
func (s *session) parseNumber(text string) (float64, error) {
	n, err := sanitize.ParseFloat(text, s.seps)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return n, nil
}

// openStore opens the record database, creating its directory.
func (s *session) openStore(ctx context.Context) (*store.Store, error) {
	if err := config.EnsureStoreDir(s.cfg.Store.Path); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, s.cfg.Store.Path, s.registry)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", s.cfg.Store.Path).Msg("record store opened")
	return st, nil
}

// catalog returns the named catalog. Without a name it picks the only
// catalog that has every one of unitIDs.
func (s *session) catalog(name string, unitIDs ...string) (*units.Catalog, error) {
	if name != "" {
		c, ok := s.registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown catalog %q (available: %s)",
				name, strings.Join(s.registry.Names(), ", "))
		}
		return c, nil
	}

	var matches []*units.Catalog
	for _, c := range s.registry.Catalogs() {
		if hasAll(c, unitIDs) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		if len(unitIDs) > 0 {
			return nil, fmt.Errorf("%w: no catalog has all of %s", units.ErrUnknownUnit, strings.Join(unitIDs, ", "))
		}
		return nil, errors.New("no catalog given")
	default:
		names := make([]string, 0, len(matches))
		for _, c := range matches {
			names = append(names, c.Name())
		}
		return nil, fmt.Errorf("units %s exist in several catalogs (%s), use --catalog",
			strings.Join(unitIDs, ", "), strings.Join(names, ", "))
	}
}

func hasAll(c *units.Catalog, ids []string) bool {
	for _, id := range ids {
		if !c.Has(id) {
			return false
		}
	}
	return true
}
