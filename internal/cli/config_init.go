package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates $UNITFIELD_HOME/config.yaml (default ~/.unitfield/config.yaml)
with default values.`,
		Example: `  # Create configuration
  unitfield config init

  # Create configuration, overwriting existing
  unitfield config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			if !force {
				_, statErr := os.Stat(configPath)
				if statErr == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", configPath, statErr)
				}
			}

			if err := config.Default().Save(configPath); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", configPath)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}
