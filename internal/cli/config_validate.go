package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, environment
overrides and flags. This includes:
- Output format and precision
- Logging level
- Locale tag
- Record database path
- Custom catalog documents (schema version, base units, transforms)`,
		Example: `  # Validate current configuration
  unitfield config validate

  # Validate and show detailed information
  unitfield config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Configuration is valid")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration details:")
	fmt.Fprintf(w, "  Output format: %s\n", cfg.Output.DefaultFormat)
	fmt.Fprintf(w, "  Output precision: %d\n", cfg.Output.Precision)
	fmt.Fprintf(w, "  Logging level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Log file: %s\n", cfg.Logging.File)
	fmt.Fprintf(w, "  Locale: %s\n", cfg.Locale)
	fmt.Fprintf(w, "  Store: %s\n", cfg.Store.Path)

	if len(cfg.Catalogs.Files) == 0 {
		return
	}
	fmt.Fprintf(w, "  Catalog files: %s\n", strings.Join(cfg.Catalogs.Files, ", "))
	if reg, err := cfg.Registry(); err == nil {
		fmt.Fprintf(w, "  Catalogs: %s\n", strings.Join(reg.Names(), ", "))
	}
}
