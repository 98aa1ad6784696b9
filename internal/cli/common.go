package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/config"
	"github.com/uywa/nutrienergia/internal/equation"
	"github.com/uywa/nutrienergia/internal/ingredient"
)

// Output format tokens shared by the render paths.
const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
	outputFormatCSV   = "csv"
)

// keyValueParts is the expected number of parts when splitting key=value strings.
const keyValueParts = 2

// ingredientCache shares parsed ingredient maps across commands in one
// process. Content-hashed, so a re-read table after an edit is a new entry.
var ingredientCache = ingredient.NewCache() //nolint:gochecknoglobals // process-wide cache

// ParseInputs parses repeated --input VAR=value flags into a composition
// record. Variable names are the analytical tokens (CP, EE, NDF, ...); values
// are g/kg DM except DM itself, which is a percent.
// Exported for testing.
func ParseInputs(inputs []string) (*composition.Record, error) {
	rec := composition.NewRecord()
	for _, in := range inputs {
		parts := strings.SplitN(in, "=", keyValueParts)
		if len(parts) != keyValueParts {
			return nil, fmt.Errorf("invalid input format %q: expected VAR=value", in)
		}
		name := strings.TrimSpace(parts[0])
		raw := strings.TrimSpace(parts[1])
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
		}
		if err := rec.Set(composition.Var(name), value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// resolveFamily returns the equation family for a command invocation. An
// explicit --family wins; otherwise the ingredient name is looked up in the
// configured map, falling back to the generic family for unmapped names.
func resolveFamily(cfg *config.Config, explicit, ingredientName string) (equation.Family, error) {
	if explicit != "" {
		return equation.Family(explicit), nil
	}
	if ingredientName == "" {
		return equation.FamilyGeneric, nil
	}

	content, err := os.ReadFile(cfg.IngredientsPath())
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().
				Str("ingredient", ingredientName).
				Str("path", cfg.IngredientsPath()).
				Msg("no ingredient map, using generic family")
			return equation.FamilyGeneric, nil
		}
		return "", fmt.Errorf("reading ingredient map: %w", err)
	}

	m, err := ingredientCache.Load(content)
	if err != nil {
		return "", fmt.Errorf("parsing ingredient map: %w", err)
	}

	family, ok := m.Family(ingredientName)
	if !ok {
		logger.Debug().
			Str("ingredient", ingredientName).
			Msg("ingredient not in map, using generic family")
	}
	return family, nil
}

// displayPrinter formats numbers for human-facing tables with locale-aware
// grouping (3.200,5 in the Spanish locale the source tables use).
var displayPrinter = message.NewPrinter(language.Spanish) //nolint:gochecknoglobals

// formatValue renders a numeric value for table output.
func formatValue(v float64, decimals int) string {
	return displayPrinter.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals)))
}
