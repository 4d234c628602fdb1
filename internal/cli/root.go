package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/unitfield/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the unitfield CLI.
// It wires up logging and the catalog, convert, normalize, check, record
// and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unitfield",
		Short:   "Unit-of-measure conversion and storage",
		Long:    "unitfield: convert, validate and store physical quantities tagged with a unit",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.Store.Path = db
			}
			if locale, _ := cmd.Flags().GetString("locale"); locale != "" {
				cfg.Locale = locale
			}
			setupLogging(cmd)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table or json (default from config)")
	cmd.PersistentFlags().String("db", "", "record database path (overrides config and UNITFIELD_DB)")
	cmd.PersistentFlags().String("locale", "", "locale for number input and display, e.g. de-CH")
	cmd.AddCommand(
		newCatalogCmd(),
		NewConvertCmd(),
		NewNormalizeCmd(),
		NewCheckCmd(),
		newRecordCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # List the shipped catalogs
  unitfield catalog list

  # Show the units of a catalog
  unitfield catalog show length

  # Convert 250 centimetres to metres
  unitfield convert 250 cm m

  # Express 3 kilograms in the base unit of the mass catalog
  unitfield normalize 3 kg

  # Fail with exit code 2 when 11 cm is not at most 10 cm
  unitfield check 11 cm lte 10 cm --exit-code 2

  # Store a value, then query by base value across units
  unitfield record set width 12,5 cm --locale de
  unitfield record range length 0.1 1

  # Initialize configuration
  unitfield config init`

// newCatalogCmd creates the catalog command group.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Inspect unit catalogs"}
	cmd.AddCommand(NewCatalogListCmd(), NewCatalogShowCmd())
	return cmd
}

// newRecordCmd creates the record command group for stored values.
func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "record", Short: "Store and query quantity values"}
	cmd.AddCommand(
		NewRecordSetCmd(), NewRecordGetCmd(), NewRecordListCmd(),
		NewRecordRangeCmd(), NewRecordRescaleCmd(), NewRecordDeleteCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
