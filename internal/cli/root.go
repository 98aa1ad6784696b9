// Package cli implements the nutrienergia command tree: energy estimation,
// requirement-table scaling, and stage-based requirement derivation.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uywa/nutrienergia/internal/config"
	"github.com/uywa/nutrienergia/internal/equation"
	"github.com/uywa/nutrienergia/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type ctxKey int

// configKey carries the loaded *config.Config on the command context.
const configKey ctxKey = iota

// configFromCmd returns the config attached by the root PersistentPreRunE,
// falling back to defaults when the command runs without it (tests).
func configFromCmd(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.New()
}

// NewRootCmd creates the root Cobra command for the nutrienergia CLI.
// It wires up config loading, logging, the equation-catalog version gate,
// and the subcommand groups (energy, requirements, stage).
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:     "nutrienergia",
		Short:   "Feed energy estimation and nutrient requirement scaling",
		Long:    "NutriEnergía: estimate feed ingredient energy from laboratory composition and scale nutrient requirement tables to the resulting energy density",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			result := setupLogging(cmd, cfg)
			logResult = &result

			// Reference tables curated against one catalog range must not be
			// evaluated against another.
			if err := equation.CheckCatalogConstraint(cfg.Params.CatalogConstraint); err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configKey, cfg)
			ctx = logger.WithContext(ctx)
			cmd.SetContext(ctx)

			logger.Debug().Str("command", cmd.Name()).Msg("command started")
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logResult != nil {
				return logResult.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file path (default ~/.nutrienergia/config.yaml)")

	cmd.AddCommand(newEnergyCmd(), newRequirementsCmd(), newStageCmd())

	return cmd
}

const rootCmdExample = `  # Estimate poultry MEn for a corn sample from lab analysis (g/kg DM)
  nutrienergia energy compute --species poultry --family corn \
    --input CP=180 --input EE=35 --input NFE=700

  # Same sample, expressed as-fed in MJ/kg
  nutrienergia energy compute --species poultry --family corn \
    --input CP=180 --input EE=35 --input NFE=700 --as-fed --dm-pct 88 --unit MJ

  # List the equations applicable to the available variables
  nutrienergia energy equations --species swine --input Ash=45 --input CP=95 \
    --input EE=38 --input NDF=105

  # Batch-process a composition CSV
  nutrienergia energy batch --file samples.csv --species poultry --out results.csv

  # Scale a requirement table to a target energy density
  nutrienergia requirements scale --species broiler --stage engorde --target 3200

  # Derive the requirement from a growth stage and feed intake
  nutrienergia stage requirement --category cerdo_crecimiento --live-weight 50 \
    --daily-gain 0.7 --feed-intake 2.2`

// newEnergyCmd creates the energy command group with compute, equations, and
// batch subcommands.
func newEnergyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "energy", Short: "Feed energy estimation commands"}
	cmd.AddCommand(NewEnergyComputeCmd(), NewEnergyEquationsCmd(), NewEnergyBatchCmd())
	return cmd
}

// newRequirementsCmd creates the requirements command group.
func newRequirementsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "requirements", Short: "Nutrient requirement scaling commands"}
	cmd.AddCommand(NewRequirementsScaleCmd(), NewRequirementsTUICmd())
	return cmd
}

// newStageCmd creates the stage command group.
func newStageCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "stage", Short: "Growth-stage requirement commands"}
	cmd.AddCommand(NewStageRequirementCmd())
	return cmd
}
