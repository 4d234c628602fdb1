package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/format"
	"github.com/rshade/unitfield/internal/units"
)

// catalogSummary is the JSON form of a catalog in `catalog list`.
type catalogSummary struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Base  string `json:"base_unit"`
	Units int    `json:"units"`
}

// unitView is the JSON form of a unit in `catalog show`.
type unitView struct {
	ID        string  `json:"id"`
	Abbrev    string  `json:"abbrev"`
	Label     string  `json:"label,omitempty"`
	Factor    float64 `json:"factor"`
	Base      bool    `json:"base"`
	Nonlinear bool    `json:"nonlinear"`
}

// NewCatalogListCmd creates the catalog list command.
func NewCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			summaries := make([]catalogSummary, 0, len(s.registry.Names()))
			for _, c := range s.registry.Catalogs() {
				base, _ := c.BaseUnit()
				summaries = append(summaries, catalogSummary{
					Name: c.Name(), Label: c.Label(), Base: base.ID, Units: c.Len(),
				})
			}

			w := cmd.OutOrStdout()
			if s.json() {
				return writeJSON(w, summaries)
			}
			rows := make([][]string, 0, len(summaries))
			for _, sum := range summaries {
				rows = append(rows, []string{sum.Name, sum.Label, sum.Base, format.FormatNumber(int64(sum.Units))})
			}
			return renderTable(w, []string{"NAME", "LABEL", "BASE", "UNITS"}, rows)
		},
	}
}

// NewCatalogShowCmd creates the catalog show command.
func NewCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <catalog>",
		Short: "Show the units of a catalog in catalog order",
		Example: `  unitfield catalog show mass
  unitfield catalog show temperature -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			c, err := s.catalog(args[0])
			if err != nil {
				return err
			}

			views := unitViews(c)
			w := cmd.OutOrStdout()
			if s.json() {
				return writeJSON(w, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				factor := format.FormatFactor(v.Factor)
				switch {
				case v.Nonlinear:
					factor = "nonlinear"
				case v.Base:
					factor += " (base)"
				}
				rows = append(rows, []string{v.ID, v.Abbrev, v.Label, factor})
			}
			return renderTable(w, []string{"ID", "ABBREV", "LABEL", "FACTOR"}, rows)
		},
	}
}

func unitViews(c *units.Catalog) []unitView {
	list := c.Units()
	views := make([]unitView, 0, len(list))
	for _, u := range list {
		views = append(views, unitView{
			ID:        u.ID,
			Abbrev:    u.Abbrev,
			Label:     u.Label,
			Factor:    u.Factor,
			Base:      u.IsBase(),
			Nonlinear: u.IsNonlinear(),
		})
	}
	return views
}
