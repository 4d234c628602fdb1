package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/unitfield/internal/config"
)

// setupLogging configures logging from the config file, environment and CLI flags.
// --debug forces debug level on the console and disables the log file.
func setupLogging(cmd *cobra.Command) {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.File = ""
	}

	if err := config.InitLogger(loggingCfg.Level, loggingCfg.File != ""); err != nil {
		cmd.PrintErrf("Warning: could not open log file, logging to stderr: %v\n", err)
		_ = config.InitLogger(loggingCfg.Level, false)
	}

	logger = config.GetLogger().With().Str("component", "cli").Logger()
	logger.Debug().Str("command", cmd.CommandPath()).Msg("command started")
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(cmd *cobra.Command) error {
	logger.Debug().Str("command", cmd.CommandPath()).Msg("command finished")
	config.CloseLogFile()
	return nil
}
