package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/uywa/nutrienergia/internal/requirement"
	"github.com/uywa/nutrienergia/internal/tui"
)

// NewRequirementsTUICmd creates the "tui" subcommand: an interactive
// before/after view of a scaled requirement table.
func NewRequirementsTUICmd() *cobra.Command {
	var params RequirementsScaleParams

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive view of a scaled requirement table",
		Long: `Scale a nutrient requirement table and browse the result interactively.

Example:
  nutrienergia requirements tui --species broiler --stage engorde --target 3200`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRequirementsTUI(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Table, "table", "", "requirement table CSV (default from config)")
	cmd.Flags().StringVar(&params.Species, "species", "", "filter rows by species")
	cmd.Flags().StringVar(&params.Stage, "stage", "", "filter rows by stage")
	cmd.Flags().Float64Var(&params.Target, "target", 0, "target energy density in kcal/kg")
	cmd.Flags().IntVar(&params.Decimals, "decimals", -1, "decimal places (default from config)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func executeRequirementsTUI(cmd *cobra.Command, params RequirementsScaleParams) error {
	cfg := configFromCmd(cmd)

	if !isTerminal(os.Stdout) {
		return errors.New("the interactive view requires a terminal; use 'requirements scale' instead")
	}

	applyOutputDefaults(&params.Decimals, new(string), new(string), cfg)
	if params.Table == "" {
		params.Table = cfg.RequirementsPath()
	}
	if params.Target <= 0 {
		return fmt.Errorf("target energy density must be positive, got %g", params.Target)
	}

	rows, err := loadRequirementRows(params.Table, params.Species, params.Stage)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		cmd.Println("No requirement rows match")
		return nil
	}

	scaled := requirement.Scale(rows, params.Target)

	model := tui.NewRequirementsModel(rows, scaled, params.Target, params.Decimals)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running interactive view: %w", err)
	}
	return nil
}
