package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uywa/nutrienergia/internal/energy"
	"github.com/uywa/nutrienergia/internal/logging"
	"github.com/uywa/nutrienergia/internal/requirement"
	"github.com/uywa/nutrienergia/internal/units"
)

// StageRequirementParams holds the parameters for the stage requirement
// command. Exported for testing.
type StageRequirementParams struct {
	Category    string
	ParamsFile  string
	LiveWeight  float64
	DailyGain   float64
	ProteinFrac float64
	FatFrac     float64
	AmbientTemp float64
	TCI         float64
	FeedIntake  float64
	Table       string
	Species     string
	Stage       string
	Decimals    int
	Unit        string
	Output      string
}

// StageRequirementResult is the rendered outcome of a factorial computation.
// Exported for testing and for the JSON output path.
type StageRequirementResult struct {
	Category    string   `json:"category"`
	Maintenance float64  `json:"maintenance_kcal_day"`
	Thermal     float64  `json:"thermal_kcal_day"`
	Growth      float64  `json:"growth_kcal_day"`
	TotalME     float64  `json:"total_me_kcal_day"`
	FeedIntake  float64  `json:"feed_intake_kg_day"`
	Density     float64  `json:"required_density"`
	Unit        string   `json:"unit"`
	Notes       []string `json:"notes,omitempty"`
	// Requirements is the nutrient table scaled to Density, present when a
	// species/stage filter selected rows.
	Requirements []requirement.Row `json:"requirements,omitempty"`
}

// NewStageRequirementCmd creates the "requirement" subcommand that derives
// the daily energy requirement and dietary energy density for a growth stage
// from the factorial model.
func NewStageRequirementCmd() *cobra.Command {
	var params StageRequirementParams

	cmd := &cobra.Command{
		Use:   "requirement",
		Short: "Derive a stage's daily energy requirement and dietary density",
		Long: `Compute the daily ME requirement for an animal category from the
factorial model (maintenance + thermoregulation + deposition) and convert it
into the dietary energy density to feed at the given intake. The category's
coefficients come from the stage parameter table. With --species/--stage, the
nutrient requirement table is scaled to the derived density in the same run.

Examples:
  nutrienergia stage requirement --category cerdo_crecimiento \
    --live-weight 50 --daily-gain 700 --protein-frac 0.17 --fat-frac 0.12 \
    --ambient-temp 18 --feed-intake 2.2

  # Derive the density and scale the requirement table to it
  nutrienergia stage requirement --category cerdo_crecimiento \
    --live-weight 50 --daily-gain 700 --protein-frac 0.17 --fat-frac 0.12 \
    --feed-intake 2.2 --species cerdo --stage crecimiento`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeStageRequirement(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Category, "category", "", "animal category row in the stage parameter table")
	cmd.Flags().StringVar(&params.ParamsFile, "params", "", "stage parameter table CSV (default from config)")
	cmd.Flags().Float64Var(&params.LiveWeight, "live-weight", 0, "live weight in kg")
	cmd.Flags().Float64Var(&params.DailyGain, "daily-gain", 0, "daily gain (or production rate) in g/day")
	cmd.Flags().Float64Var(&params.ProteinFrac, "protein-frac", 0, "protein fraction of daily gain (0..1)")
	cmd.Flags().Float64Var(&params.FatFrac, "fat-frac", 0, "fat fraction of daily gain (0..1)")
	cmd.Flags().Float64Var(&params.AmbientTemp, "ambient-temp", 20, "ambient temperature in °C")
	cmd.Flags().Float64Var(&params.TCI, "tci", 0, "lower critical temperature override in °C")
	cmd.Flags().Float64Var(&params.FeedIntake, "feed-intake", 0, "feed intake in kg/day")
	cmd.Flags().StringVar(&params.Table, "table", "", "requirement table CSV to scale (default from config)")
	cmd.Flags().StringVar(&params.Species, "species", "", "scale the requirement rows for this species")
	cmd.Flags().StringVar(&params.Stage, "stage", "", "scale the requirement rows for this stage")
	cmd.Flags().IntVar(&params.Decimals, "decimals", -1, "decimal places (default from config)")
	cmd.Flags().StringVar(&params.Unit, "unit", "", "energy unit: kcal, kJ or MJ (default from config)")
	cmd.Flags().StringVar(&params.Output, "output", "", "output format: table or json (default from config)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("live-weight")
	_ = cmd.MarkFlagRequired("feed-intake")

	return cmd
}

func executeStageRequirement(cmd *cobra.Command, params StageRequirementParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := configFromCmd(cmd)

	applyOutputDefaults(&params.Decimals, &params.Unit, &params.Output, cfg)
	if params.ParamsFile == "" {
		params.ParamsFile = cfg.StageParamsPath()
	}

	f, err := os.Open(params.ParamsFile)
	if err != nil {
		return fmt.Errorf("opening stage parameter table: %w", err)
	}
	defer f.Close()

	table, err := energy.LoadStageParams(f)
	if err != nil {
		return fmt.Errorf("loading stage parameter table: %w", err)
	}
	stage, err := energy.FindStageParams(table, params.Category)
	if err != nil {
		return err
	}

	in := energy.GrowthInputs{
		LiveWeight:  params.LiveWeight,
		DailyGain:   params.DailyGain,
		ProteinFrac: params.ProteinFrac,
		FatFrac:     params.FatFrac,
		AmbientTemp: params.AmbientTemp,
	}
	if cmd.Flags().Changed("tci") {
		in.TCI = &params.TCI
	}

	tci := stage.TCIBase
	if in.TCI != nil {
		tci = *in.TCI
	}
	totalME := stage.TotalME(in)
	density, notes, err := energy.RequiredDensity(totalME, params.FeedIntake)
	if err != nil {
		return err
	}

	// Daily terms and density are reported in the display unit.
	unit := units.Unit(params.Unit)
	result := StageRequirementResult{
		Category:   stage.Category,
		FeedIntake: params.FeedIntake,
		Unit:       string(unit),
		Notes:      notes,
	}
	for _, conv := range []struct {
		dst *float64
		src float64
	}{
		{&result.Maintenance, stage.Maintenance(params.LiveWeight)},
		{&result.Thermal, stage.Thermal(tci, params.AmbientTemp)},
		{&result.Growth, stage.Growth(params.DailyGain, params.ProteinFrac, params.FatFrac)},
		{&result.TotalME, totalME},
		{&result.Density, density},
	} {
		v, convErr := units.Convert(conv.src, units.Kcal, unit)
		if convErr != nil {
			return convErr
		}
		*conv.dst = units.Round(v, params.Decimals)
	}

	// Scaling always works against the kcal density; the display unit only
	// affects reporting.
	var refRows []requirement.Row
	if params.Species != "" || params.Stage != "" {
		if params.Table == "" {
			params.Table = cfg.RequirementsPath()
		}
		refRows, err = loadRequirementRows(params.Table, params.Species, params.Stage)
		if err != nil {
			return err
		}
		result.Requirements = requirement.Scale(refRows, density)
	}

	log.Debug().
		Str("operation", "stage_requirement").
		Str("category", stage.Category).
		Float64("total_me", totalME).
		Float64("density", density).
		Int("requirement_rows", len(result.Requirements)).
		Msg("stage requirement computed")

	if params.Output == outputFormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if err := renderStageRequirementTable(cmd.OutOrStdout(), result, params.Decimals); err != nil {
		return err
	}
	if len(result.Requirements) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		return renderScaledTable(cmd.OutOrStdout(), refRows, result.Requirements, density, params.Decimals)
	}
	return nil
}

func renderStageRequirementTable(w io.Writer, r StageRequirementResult, decimals int) error {
	fmt.Fprintln(w, summaryBoxStyle.Render(fmt.Sprintf(
		"Required density: %s %s/kg at %s kg/day intake",
		formatValue(r.Density, decimals), r.Unit, formatValue(r.FeedIntake, 2))))

	fmt.Fprintf(w, "Category:     %s\n", r.Category)
	fmt.Fprintf(w, "Maintenance:  %s %s/day\n", formatValue(r.Maintenance, decimals), r.Unit)
	fmt.Fprintf(w, "Thermal:      %s %s/day\n", formatValue(r.Thermal, decimals), r.Unit)
	fmt.Fprintf(w, "Deposition:   %s %s/day\n", formatValue(r.Growth, decimals), r.Unit)
	fmt.Fprintf(w, "Total ME:     %s %s/day\n", formatValue(r.TotalME, decimals), r.Unit)
	for _, note := range r.Notes {
		fmt.Fprintln(w, noteStyle.Render("Note: "+note))
	}
	return nil
}
