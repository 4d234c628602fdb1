package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/format"
	"github.com/rshade/unitfield/internal/quantity"
	"github.com/rshade/unitfield/internal/store"
	"github.com/rshade/unitfield/internal/units"
)

// recordView is the JSON form of a stored record.
type recordView struct {
	ID      string `json:"id"`
	Field   string `json:"field"`
	Catalog string `json:"catalog"`
	quantity.Fields
	UpdatedAt time.Time `json:"updated_at"`
}

func newRecordView(rec *store.Record) recordView {
	return recordView{
		ID:        rec.ID,
		Field:     rec.Field,
		Catalog:   rec.Value.Catalog().Name(),
		Fields:    rec.Value.Fields(),
		UpdatedAt: rec.UpdatedAt,
	}
}

// withStore runs fn with a session and an open record store.
func withStore(cmd *cobra.Command, fn func(*session, *store.Store) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(s, st)
}

// NewRecordSetCmd creates the record set command.
func NewRecordSetCmd() *cobra.Command {
	var (
		id          string
		catalogName string
	)

	cmd := &cobra.Command{
		Use:   "set <field> <value> <unit>",
		Short: "Store a value, or update the record given by --id",
		Long: `Stores a value in the given unit. The base value is recomputed before
the record is written.

Text that is not a number is stored as a record without input and a base
value of 0, the way a partially typed form field is.`,
		Example: `  unitfield record set width 250 cm
  unitfield record set width 2,5 m --locale de --id 01J9Z3V8K2X4M5N6P7Q8R9S0T1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, text, unit := args[0], args[1], args[2]
			return withStore(cmd, func(s *session, st *store.Store) error {
				rec, err := s.loadOrNewRecord(cmd, st, id, catalogName, unit)
				if err != nil {
					return err
				}
				rec.Field = field
				if err := rec.Value.SetUnit(unit); err != nil {
					return err
				}
				if !rec.Value.SetText(text, s.seps) {
					cmd.PrintErrf("Warning: %q is not a number, stored without a value\n", text)
				}
				if err := st.Save(cmd.Context(), rec); err != nil {
					return err
				}
				return s.writeRecords(cmd, rec)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "id of the record to update")
	cmd.Flags().StringVarP(&catalogName, "catalog", "c", "", "catalog name (inferred from the unit when omitted)")
	return cmd
}

func (s *session) loadOrNewRecord(
	cmd *cobra.Command, st *store.Store, id, catalogName, unit string,
) (*store.Record, error) {
	if id != "" {
		rec, err := st.Get(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		if name := rec.Value.Catalog().Name(); catalogName != "" && catalogName != name {
			return nil, fmt.Errorf("%w: record %s belongs to catalog %q, not %q",
				units.ErrConfiguration, id, name, catalogName)
		}
		return rec, nil
	}
	c, err := s.catalog(catalogName, unit)
	if err != nil {
		return nil, err
	}
	v, err := quantity.New(c, quantity.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &store.Record{Value: v}, nil
}

// NewRecordGetCmd creates the record get command.
func NewRecordGetCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored record",
		Long: `Shows a stored record. --format renders it for display instead:
label-key prints the field name, label-value prints the input and unit,
html prints a labelled row of markup.`,
		Example: `  unitfield record get 01J9Z3V8K2X4M5N6P7Q8R9S0T1
  unitfield record get 01J9Z3V8K2X4M5N6P7Q8R9S0T1 --format html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *session, st *store.Store) error {
				rec, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if kind == "" {
					return s.writeRecords(cmd, rec)
				}

				k, err := format.ParseKind(kind)
				if err != nil {
					return err
				}
				result := s.formatter.Format(k, rec.Field, rec.Value)
				if s.json() {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&kind, "format", "", "render as html, label-key or label-value")
	return cmd
}

// NewRecordListCmd creates the record list command.
func NewRecordListCmd() *cobra.Command {
	var catalogName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(s *session, st *store.Store) error {
				recs, err := st.List(cmd.Context(), catalogName)
				if err != nil {
					return err
				}
				return s.writeRecords(cmd, recs...)
			})
		},
	}

	cmd.Flags().StringVarP(&catalogName, "catalog", "c", "", "only list records of this catalog")
	return cmd
}

// NewRecordRangeCmd creates the record range command.
func NewRecordRangeCmd() *cobra.Command {
	var unit string

	cmd := &cobra.Command{
		Use:   "range <catalog> <min> <max>",
		Short: "List records whose value lies between two bounds",
		Long: `Lists the records of a catalog whose value lies in [min, max], whatever
unit each record was entered in. Bounds are in --unit, default the base unit.`,
		Example: `  unitfield record range length 0.5 2
  unitfield record range length 50 200 --unit cm`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *session, st *store.Store) error {
				c, err := s.catalog(args[0])
				if err != nil {
					return err
				}
				boundUnit := unit
				if boundUnit == "" {
					base, _ := c.BaseUnit()
					boundUnit = base.ID
				}

				lo, err := s.boundToBase(args[1], c, boundUnit)
				if err != nil {
					return err
				}
				hi, err := s.boundToBase(args[2], c, boundUnit)
				if err != nil {
					return err
				}

				recs, err := st.Range(cmd.Context(), c.Name(), lo, hi)
				if err != nil {
					return err
				}
				return s.writeRecords(cmd, recs...)
			})
		},
	}

	cmd.Flags().StringVarP(&unit, "unit", "u", "", "unit of the bounds (default: base unit)")
	return cmd
}

func (s *session) boundToBase(text string, c *units.Catalog, unit string) (float64, error) {
	n, err := s.parseNumber(text)
	if err != nil {
		return 0, err
	}
	return units.Normalize(n, c, unit)
}

// NewRecordRescaleCmd creates the record rescale command.
func NewRecordRescaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rescale <id> <unit>",
		Short: "Switch a record to another unit, converting its input",
		Long: `Switches a stored record to another unit of its catalog and converts the
input so the physical quantity, and therefore the base value, is preserved.`,
		Example: `  unitfield record rescale 01J9Z3V8K2X4M5N6P7Q8R9S0T1 mm`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *session, st *store.Store) error {
				rec, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := rec.Value.Rescale(args[1]); err != nil {
					return err
				}
				if err := st.Save(cmd.Context(), rec); err != nil {
					return err
				}
				return s.writeRecords(cmd, rec)
			})
		},
	}
}

// NewRecordDeleteCmd creates the record delete command.
func NewRecordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(_ *session, st *store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return err
			})
		},
	}
}

func (s *session) writeRecords(cmd *cobra.Command, recs ...*store.Record) error {
	w := cmd.OutOrStdout()
	if s.json() {
		views := make([]recordView, 0, len(recs))
		for _, rec := range recs {
			views = append(views, newRecordView(rec))
		}
		return writeJSON(w, views)
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		c := rec.Value.Catalog()
		base, _ := c.BaseUnit()
		rows = append(rows, []string{
			rec.ID,
			rec.Field,
			c.Name(),
			s.formatter.Format(format.KindLabelValue, rec.Field, rec.Value).Text,
			s.formatter.Number(rec.Value.BaseValue()) + " " + base.Abbrev,
		})
	}
	return renderTable(w, []string{"ID", "FIELD", "CATALOG", "VALUE", "BASE"}, rows)
}
