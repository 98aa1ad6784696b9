package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/energy"
	"github.com/uywa/nutrienergia/internal/equation"
	"github.com/uywa/nutrienergia/internal/ingredient"
	"github.com/uywa/nutrienergia/internal/logging"
	"github.com/uywa/nutrienergia/internal/units"
)

// EnergyBatchParams holds the parameters for the energy batch command.
// Exported for testing.
type EnergyBatchParams struct {
	File     string
	Species  string
	Family   string
	MapFile  string
	AsFed    bool
	Decimals int
	Unit     string
	Out      string
}

// batchSample is one parsed input row.
type batchSample struct {
	name   string
	family equation.Family
	rec    *composition.Record
	dmPct  *float64
}

// batchResult pairs a sample with its outcome; exactly one of result and err
// is set.
type batchResult struct {
	sample batchSample
	result *energy.Result
	err    error
}

// NewEnergyBatchCmd creates the "batch" subcommand that estimates energy for
// every row of a composition CSV.
func NewEnergyBatchCmd() *cobra.Command {
	var params EnergyBatchParams

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Estimate energy for a CSV of compositions",
		Long: `Estimate energy for every row of a composition CSV. The file needs an
"ingrediente" column; the remaining columns are composition variables (CP,
EE, NDF, ...) in g/kg DM, DM itself in percent. An optional "familia" column
overrides the ingredient-map lookup per row. Rows that fail are reported in
the output with an ERROR note; they never abort the batch.

Example:
  nutrienergia energy batch --file samples.csv --species poultry --out results.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEnergyBatch(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.File, "file", "", "composition CSV to process")
	cmd.Flags().StringVar(&params.Species, "species", "", "animal species (poultry, swine)")
	cmd.Flags().StringVar(&params.Family, "family", "", "ingredient family for every row (overrides the map)")
	cmd.Flags().StringVar(&params.MapFile, "map", "", "ingredient map CSV (default from config)")
	cmd.Flags().BoolVar(&params.AsFed, "as-fed", false, "report on as-fed basis (needs a DM column)")
	cmd.Flags().IntVar(&params.Decimals, "decimals", -1, "decimal places (default from config)")
	cmd.Flags().StringVar(&params.Unit, "unit", "", "energy unit: kcal, kJ or MJ (default from config)")
	cmd.Flags().StringVar(&params.Out, "out", "", "output CSV path (default stdout)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("species")

	return cmd
}

func executeEnergyBatch(cmd *cobra.Command, params EnergyBatchParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := configFromCmd(cmd)
	start := time.Now()

	format := outputFormatCSV
	applyOutputDefaults(&params.Decimals, &params.Unit, &format, cfg)
	if params.MapFile == "" {
		params.MapFile = cfg.IngredientsPath()
	}

	f, err := os.Open(params.File)
	if err != nil {
		return fmt.Errorf("opening batch file: %w", err)
	}
	defer f.Close()

	ingredientMap, err := loadIngredientMap(params.MapFile)
	if err != nil {
		return err
	}

	samples, err := parseBatchCSV(f, equation.Family(params.Family), ingredientMap)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		cmd.Println("No samples in file")
		return nil
	}

	results := runBatch(ctx, samples, params)

	out := cmd.OutOrStdout()
	if params.Out != "" {
		outFile, createErr := os.Create(params.Out)
		if createErr != nil {
			return fmt.Errorf("creating output file: %w", createErr)
		}
		defer outFile.Close()
		out = outFile
	}

	if err := writeBatchCSV(out, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	log.Info().
		Str("operation", "energy_batch").
		Int("samples", len(samples)).
		Int("failed", failed).
		Dur("duration_ms", time.Since(start)).
		Msg("batch complete")

	if failed > 0 {
		cmd.PrintErrf("Warning: %d of %d samples failed; see the notes column\n", failed, len(samples))
	}
	return nil
}

// loadIngredientMap reads and caches the ingredient map. A missing file is
// not an error; every row then resolves to the generic family.
func loadIngredientMap(path string) (*ingredient.Map, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ingredient map: %w", err)
	}
	m, err := ingredientCache.Load(content)
	if err != nil {
		return nil, fmt.Errorf("parsing ingredient map: %w", err)
	}
	return m, nil
}

// parseBatchCSV reads the batch input. Non-variable columns other than
// ingrediente and familia are rejected so a typoed header cannot silently
// drop an analyte.
func parseBatchCSV(r io.Reader, forced equation.Family, m *ingredient.Map) ([]batchSample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading batch header: %w", err)
	}

	nameIdx, familyIdx := -1, -1
	varCols := make(map[int]composition.Var)
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case "ingrediente":
			nameIdx = i
		case "familia":
			familyIdx = i
		default:
			v := composition.Var(col)
			if !composition.IsKnown(v) {
				return nil, fmt.Errorf("batch file: unknown column %q", col)
			}
			varCols[i] = v
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("batch file missing column %q", "ingrediente")
	}

	var samples []batchSample
	for line := 2; ; line++ {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading batch line %d: %w", line, readErr)
		}

		s := batchSample{name: strings.TrimSpace(row[nameIdx]), rec: composition.NewRecord()}
		for i, v := range varCols {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			value, parseErr := strconv.ParseFloat(cell, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("batch line %d, column %s: %q is not a number", line, v, cell)
			}
			if setErr := s.rec.Set(v, value); setErr != nil {
				return nil, fmt.Errorf("batch line %d: %w", line, setErr)
			}
			if v == composition.DM {
				dm := value
				s.dmPct = &dm
			}
		}

		switch {
		case forced != "":
			s.family = forced
		case familyIdx >= 0 && strings.TrimSpace(row[familyIdx]) != "":
			s.family = equation.Family(strings.TrimSpace(row[familyIdx]))
		case m != nil:
			s.family, _ = m.Family(s.name)
		default:
			s.family = equation.FamilyGeneric
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// runBatch computes every sample concurrently, preserving input order. Per-row
// failures land in the row's result; only context cancellation stops the group.
func runBatch(ctx context.Context, samples []batchSample, params EnergyBatchParams) []batchResult {
	results := make([]batchResult, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, s := range samples {
		g.Go(func() error {
			req := energy.Request{
				Species:     equation.Species(params.Species),
				Family:      s.family,
				Inputs:      s.rec,
				ReturnAsFed: params.AsFed,
				DMPct:       s.dmPct,
				Decimals:    params.Decimals,
				Unit:        units.Unit(params.Unit),
			}
			result, err := energy.Compute(gctx, req)
			results[i] = batchResult{sample: s, result: result, err: err}
			return nil
		})
	}
	// The workers never return errors; Wait only observes cancellation.
	_ = g.Wait()
	return results
}

func writeBatchCSV(w io.Writer, results []batchResult) error {
	cw := csv.NewWriter(w)
	header := []string{"ingrediente", "familia", "equation", "output", "value", "unit", "basis", "notes"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.sample.name, string(r.sample.family), "", "", "", "", "", ""}
		if r.err != nil {
			row[7] = "ERROR: " + r.err.Error()
		} else {
			row[2] = r.result.Equation
			row[3] = string(r.result.Output)
			row[4] = strconv.FormatFloat(r.result.Value, 'f', -1, 64)
			row[5] = string(r.result.Unit)
			row[6] = r.result.Basis
			row[7] = strings.Join(r.result.Notes, "; ")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
