package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/config"
	"github.com/uywa/nutrienergia/internal/energy"
	"github.com/uywa/nutrienergia/internal/equation"
	"github.com/uywa/nutrienergia/internal/ingredient"
	"github.com/uywa/nutrienergia/internal/logging"
	"github.com/uywa/nutrienergia/internal/units"
)

// EnergyComputeParams holds the parameters for the energy compute command.
// Exported for testing.
type EnergyComputeParams struct {
	Species    string
	Family     string
	Ingredient string
	Inputs     []string // VAR=value format
	Method     string
	AsFed      bool
	DMPct      float64
	Decimals   int
	Unit       string
	Output     string
}

// NewEnergyComputeCmd creates the "compute" subcommand that estimates one
// ingredient's energy value from its laboratory composition.
func NewEnergyComputeCmd() *cobra.Command {
	var params EnergyComputeParams

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Estimate an ingredient's energy value",
		Long: `Estimate the energy value of a feed ingredient from its laboratory
composition. Inputs are g/kg of dry matter (DM itself in percent); the
equation is selected automatically from the catalog unless --method names one.

Examples:
  # Automatic equation selection for a corn sample
  nutrienergia energy compute --species poultry --family corn \
    --input CP=180 --input EE=35 --input NFE=700

  # Force a specific equation
  nutrienergia energy compute --species swine --method me_noblet_perez \
    --input Ash=45 --input CP=95 --input EE=38 --input NDF=105

  # Resolve the family from the ingredient map, report as-fed in MJ
  nutrienergia energy compute --species poultry --ingredient "Maíz" \
    --input CP=180 --input EE=35 --input NFE=700 --as-fed --dm-pct 88 --unit MJ`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEnergyCompute(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Species, "species", "", "animal species (poultry, swine)")
	cmd.Flags().StringVar(&params.Family, "family", "", "ingredient family (corn, soybean_meal, ...)")
	cmd.Flags().StringVar(&params.Ingredient, "ingredient", "",
		"ingredient name, resolved to a family via the ingredient map")
	cmd.Flags().StringArrayVar(&params.Inputs, "input", nil,
		"composition input VAR=value in g/kg DM (repeatable); omit to use the generic default composition")
	cmd.Flags().StringVar(&params.Method, "method", "", "equation ID, bypassing automatic selection")
	cmd.Flags().BoolVar(&params.AsFed, "as-fed", false, "report on as-fed basis (requires --dm-pct or DM input)")
	cmd.Flags().Float64Var(&params.DMPct, "dm-pct", 0, "dry matter percent for as-fed conversion")
	cmd.Flags().IntVar(&params.Decimals, "decimals", -1, "decimal places (default from config)")
	cmd.Flags().StringVar(&params.Unit, "unit", "", "energy unit: kcal, kJ or MJ (default from config)")
	cmd.Flags().StringVar(&params.Output, "output", "", "output format: table, json or csv (default from config)")
	_ = cmd.MarkFlagRequired("species")

	return cmd
}

func executeEnergyCompute(cmd *cobra.Command, params EnergyComputeParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := configFromCmd(cmd)
	start := time.Now()

	applyOutputDefaults(&params.Decimals, &params.Unit, &params.Output, cfg)

	rec, err := ParseInputs(params.Inputs)
	if err != nil {
		return err
	}
	usedDefault := false
	if len(params.Inputs) == 0 {
		rec = ingredient.DefaultComposition()
		usedDefault = true
		log.Info().Msg("no composition inputs supplied, using the generic default composition")
	}

	family, err := resolveFamily(cfg, params.Family, params.Ingredient)
	if err != nil {
		return err
	}

	req := energy.Request{
		Species:     equation.Species(params.Species),
		Family:      family,
		Method:      params.Method,
		Inputs:      rec,
		ReturnAsFed: params.AsFed,
		Decimals:    params.Decimals,
		Unit:        units.Unit(params.Unit),
	}
	if cmd.Flags().Changed("dm-pct") {
		req.DMPct = &params.DMPct
	} else if dm, ok := rec.Get(composition.DM); ok {
		// A DM composition input serves as the as-fed conversion factor when
		// no explicit --dm-pct is given, matching the batch column behavior.
		req.DMPct = &dm
	}

	result, err := energy.Compute(ctx, req)
	if err != nil {
		return fmt.Errorf("computing energy: %w", err)
	}
	if usedDefault {
		result.Notes = append(result.Notes, "computed from the generic default composition, not laboratory data")
	}

	log.Debug().
		Str("operation", "energy_compute").
		Str("equation", result.Equation).
		Dur("duration_ms", time.Since(start)).
		Msg("energy computation complete")

	return renderEnergyResult(cmd.OutOrStdout(), params.Output, params.Ingredient, result)
}

// applyOutputDefaults fills unset output flags from the loaded config.
func applyOutputDefaults(decimals *int, unit, format *string, cfg *config.Config) {
	if *decimals < 0 {
		*decimals = cfg.Output.Decimals
	}
	if *unit == "" {
		*unit = cfg.Output.Unit
	}
	if *format == "" {
		*format = cfg.Output.Format
	}
}

// summaryBoxStyle frames the headline value of a computation.
var summaryBoxStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals
						Border(lipgloss.RoundedBorder()).
						Padding(0, 1)

// noteStyle marks advisory notes in table output.
var noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) //nolint:gochecknoglobals

func renderEnergyResult(w io.Writer, format, ingredientName string, result *energy.Result) error {
	switch format {
	case outputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case outputFormatCSV:
		return renderEnergyResultCSV(w, ingredientName, result)
	default:
		return renderEnergyResultTable(w, ingredientName, result)
	}
}

func renderEnergyResultTable(w io.Writer, ingredientName string, result *energy.Result) error {
	decimals := decimalsOf(result.Value)
	headline := fmt.Sprintf("%s: %s %s/kg (%s)",
		result.Output, formatValue(result.Value, decimals), result.Unit, result.Basis)
	fmt.Fprintln(w, summaryBoxStyle.Render(headline))

	if ingredientName != "" {
		fmt.Fprintf(w, "Ingredient: %s\n", ingredientName)
	}
	fmt.Fprintf(w, "Equation:   %s\n", result.Equation)
	fmt.Fprintf(w, "Variables:  %s\n", joinVars(result.Variables))
	fmt.Fprintf(w, "ID:         %s\n", result.ID)
	for _, note := range result.Notes {
		fmt.Fprintln(w, noteStyle.Render("Note: "+note))
	}
	return nil
}

func renderEnergyResultCSV(w io.Writer, ingredientName string, result *energy.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "ingrediente", "equation", "output", "value", "unit", "basis", "notes"}
	row := []string{
		result.ID,
		ingredientName,
		result.Equation,
		string(result.Output),
		strconv.FormatFloat(result.Value, 'f', -1, 64),
		string(result.Unit),
		result.Basis,
		strings.Join(result.Notes, "; "),
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// decimalsOf reports the number of fractional digits the value carries after
// rounding, so table output shows exactly what was computed.
func decimalsOf(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func joinVars[T ~string](vars []T) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
