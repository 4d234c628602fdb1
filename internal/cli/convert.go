package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/units"
)

// conversion is the JSON form of convert and normalize results.
type conversion struct {
	Catalog string  `json:"catalog"`
	Value   float64 `json:"value"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Result  float64 `json:"result"`
}

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	var catalogName string

	cmd := &cobra.Command{
		Use:   "convert <value> <from-unit> <to-unit>",
		Short: "Convert a value between two units of one catalog",
		Long: `Converts a value between two units of the same catalog. The catalog is
inferred from the units unless --catalog is given. The value is parsed with
the separators of the configured locale.`,
		Example: `  unitfield convert 250 cm m
  unitfield convert 212 F C
  unitfield convert 1.234,5 g kg --locale de`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			value, err := s.parseNumber(args[0])
			if err != nil {
				return err
			}
			from, to := args[1], args[2]
			c, err := s.catalog(catalogName, from, to)
			if err != nil {
				return err
			}

			result, err := units.Convert(value, c, from, to)
			if err != nil {
				return err
			}
			logger.Debug().
				Str("catalog", c.Name()).
				Float64("value", value).
				Str("from", from).
				Str("to", to).
				Float64("result", result).
				Msg("converted")

			return s.writeConversion(cmd, conversion{
				Catalog: c.Name(), Value: value, From: from, To: to, Result: result,
			})
		},
	}

	cmd.Flags().StringVarP(&catalogName, "catalog", "c", "", "catalog name (inferred from the units when omitted)")
	return cmd
}

// NewNormalizeCmd creates the normalize command.
func NewNormalizeCmd() *cobra.Command {
	var catalogName string

	cmd := &cobra.Command{
		Use:   "normalize <value> <unit>",
		Short: "Express a value in its catalog's base unit",
		Example: `  unitfield normalize 3 kg
  unitfield normalize 2 h -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			value, err := s.parseNumber(args[0])
			if err != nil {
				return err
			}
			unit := args[1]
			c, err := s.catalog(catalogName, unit)
			if err != nil {
				return err
			}

			base, err := units.Normalize(value, c, unit)
			if err != nil {
				return err
			}
			baseUnit, _ := c.BaseUnit()

			return s.writeConversion(cmd, conversion{
				Catalog: c.Name(), Value: value, From: unit, To: baseUnit.ID, Result: base,
			})
		},
	}

	cmd.Flags().StringVarP(&catalogName, "catalog", "c", "", "catalog name (inferred from the unit when omitted)")
	return cmd
}

func (s *session) writeConversion(cmd *cobra.Command, conv conversion) error {
	w := cmd.OutOrStdout()
	if s.json() {
		return writeJSON(w, conv)
	}
	c, _ := s.registry.Get(conv.Catalog)
	_, err := fmt.Fprintf(w, "%s %s = %s %s\n",
		s.formatter.Number(conv.Value), abbrev(c, conv.From),
		s.formatter.Number(conv.Result), abbrev(c, conv.To))
	return err
}

// abbrev returns the display abbreviation of a unit, or its id.
func abbrev(c *units.Catalog, id string) string {
	if u, ok := c.Lookup(id); ok {
		return u.Abbrev
	}
	return id
}
