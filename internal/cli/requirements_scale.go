package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/uywa/nutrienergia/internal/logging"
	"github.com/uywa/nutrienergia/internal/requirement"
)

// RequirementsScaleParams holds the parameters for the requirements scale
// command. Exported for testing.
type RequirementsScaleParams struct {
	Table    string
	Species  string
	Stage    string
	Target   float64
	Decimals int
	Output   string
	Out      string
}

// NewRequirementsScaleCmd creates the "scale" subcommand that rescales a
// nutrient requirement table to a target energy density.
func NewRequirementsScaleCmd() *cobra.Command {
	var params RequirementsScaleParams

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Scale a requirement table to a target energy density",
		Long: `Rescale a nutrient requirement table so nutrient-to-energy ratios are
preserved at the target dietary energy density. Non-scalable nutrients keep
their values (floored at their absolute minimum); rows without a reference
energy pass through unchanged.

Examples:
  nutrienergia requirements scale --species broiler --stage engorde --target 3200

  nutrienergia requirements scale --table my_table.csv --target 2900 \
    --output csv --out scaled.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRequirementsScale(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Table, "table", "", "requirement table CSV (default from config)")
	cmd.Flags().StringVar(&params.Species, "species", "", "filter rows by species")
	cmd.Flags().StringVar(&params.Stage, "stage", "", "filter rows by stage")
	cmd.Flags().Float64Var(&params.Target, "target", 0, "target energy density in kcal/kg")
	cmd.Flags().IntVar(&params.Decimals, "decimals", -1, "decimal places (default from config)")
	cmd.Flags().StringVar(&params.Output, "output", "", "output format: table, json or csv (default from config)")
	cmd.Flags().StringVar(&params.Out, "out", "", "output path (default stdout)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func executeRequirementsScale(cmd *cobra.Command, params RequirementsScaleParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := configFromCmd(cmd)
	start := time.Now()

	applyOutputDefaults(&params.Decimals, new(string), &params.Output, cfg)
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

	log.Debug().
		Str("operation", "requirements_scale").
		Float64("target", params.Target).
		Int("rows", len(rows)).
		Dur("duration_ms", time.Since(start)).
		Msg("requirement scaling complete")

	out := cmd.OutOrStdout()
	if params.Out != "" {
		outFile, createErr := os.Create(params.Out)
		if createErr != nil {
			return fmt.Errorf("creating output file: %w", createErr)
		}
		defer outFile.Close()
		out = outFile
	}

	switch params.Output {
	case outputFormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(scaled)
	case outputFormatCSV:
		return requirement.Export(out, scaled, params.Decimals)
	default:
		return renderScaledTable(out, rows, scaled, params.Target, params.Decimals)
	}
}

// loadRequirementRows reads the table and applies the species/stage filter.
func loadRequirementRows(path, species, stage string) ([]requirement.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening requirement table: %w", err)
	}
	defer f.Close()

	rows, err := requirement.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading requirement table: %w", err)
	}
	return requirement.Filter(rows, species, stage), nil
}

// renderScaledTable shows before/after values side by side.
func renderScaledTable(w io.Writer, before, after []requirement.Row, target float64, decimals int) error {
	fmt.Fprintln(w, summaryBoxStyle.Render(
		fmt.Sprintf("Requirements at %s kcal/kg", formatValue(target, 0))))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUTRIENT\tREFERENCE\tSCALED\tUNIT\tSCALABLE")
	for i, row := range after {
		scalable := "yes"
		if !row.Scalable {
			scalable = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.Nutrient,
			formatValue(before[i].ValuePerKg, decimals),
			formatValue(row.ValuePerKg, decimals),
			row.Unit,
			scalable)
	}
	return tw.Flush()
}
