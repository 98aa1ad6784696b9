package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uywa/nutrienergia/internal/config"
	"github.com/uywa/nutrienergia/internal/logging"
)

// setupLogging configures logging from the config file and the --debug flag.
// The --debug flag wins over every other source and forces console output.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.Result {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.New(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: could not open log file, logging to stderr: %s\n", result.FallbackReason)
	}

	return result
}
