// Package energy orchestrates ingredient energy computation: it validates
// inputs, resolves derived quantities, selects and invokes a catalog
// equation, converts basis and units, and packages a structured result with
// provenance. It also carries the factorial stage models that derive the
// daily energy requirement and the dietary energy density to scale
// requirement tables against.
package energy

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/equation"
	"github.com/uywa/nutrienergia/internal/logging"
	"github.com/uywa/nutrienergia/internal/selector"
	"github.com/uywa/nutrienergia/internal/units"
)

// Basis tokens for Result.Basis.
const (
	BasisDM    = "DM"
	BasisAsFed = "as-fed"
)

// typicalMaxKcalKgDM is the upper edge of the typical dietary energy range.
// Values above it get an advisory note, never an error: it is a plausibility
// hint for a human reviewer, not a correctness bound.
const typicalMaxKcalKgDM = 3600

// ErrMissingDryMatterPercent is returned when an as-fed result is requested
// without supplying the dry-matter percentage. The computation never silently
// defaults to DM basis.
var ErrMissingDryMatterPercent = errors.New("as-fed output requested but dry matter percent not supplied")

// Request describes one energy computation.
type Request struct {
	Species equation.Species
	Family  equation.Family
	// Method optionally names an equation, bypassing automatic selection.
	// The named equation's requirements are still validated.
	Method string
	// Inputs in g/kg DM (energy analytes kcal/kg DM, DM itself in percent).
	Inputs *composition.Record
	// ReturnAsFed converts the result to as-fed basis; requires DMPct.
	ReturnAsFed bool
	// DMPct is the dry-matter percentage, nil when unknown.
	DMPct *float64
	// Decimals for the reported value.
	Decimals int
	// Unit for the reported value; empty means kcal.
	Unit units.Unit
}

// Result is the outcome of one computation. Created fresh per call, never
// mutated afterwards.
type Result struct {
	// ID is a ULID identifying this computation in logs and exports.
	ID        string            `json:"id"`
	Value     float64           `json:"value"`
	Unit      units.Unit        `json:"unit"`
	Basis     string            `json:"basis"`
	Equation  string            `json:"equation"`
	Output    equation.Output   `json:"output"`
	Variables []composition.Var `json:"variables"`
	// Notes carries non-fatal advisory warnings.
	Notes []string `json:"notes,omitempty"`
}

// Compute runs the full computation contract: derive missing quantities,
// resolve the equation, evaluate with convention-normalized inputs, convert
// basis and unit when requested, and package the result. All failures are
// deterministic input-validation failures; nothing is retried and nothing is
// swallowed.
func Compute(ctx context.Context, req Request) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Inputs == nil {
		return nil, errors.New("compute request inputs cannot be nil")
	}

	// Work on a copy so derivations never leak into the caller's record.
	rec := req.Inputs.Clone()
	derivedNFE := rec.DeriveNFE()
	derivedDRES := rec.DeriveDRES()

	log.Debug().
		Str("component", "energy").
		Str("operation", "compute").
		Str("species", string(req.Species)).
		Str("family", string(req.Family)).
		Str("method", req.Method).
		Bool("derived_nfe", derivedNFE).
		Bool("derived_dres", derivedDRES).
		Msg("starting energy computation")

	available := selector.Available(rec)

	var desc equation.Descriptor
	var err error
	if req.Method != "" {
		desc, err = selector.Validate(req.Method, available)
	} else {
		var id string
		id, err = selector.SelectBest(req.Species, req.Family, available)
		if err == nil {
			desc, err = equation.Lookup(id)
		}
	}
	if err != nil {
		return nil, err
	}
	if desc.Species != req.Species {
		return nil, fmt.Errorf("equation %s is calibrated for %s, not %s",
			desc.ID, desc.Species, req.Species)
	}

	valueDM, err := equation.Evaluate(desc, rec, req.Decimals)
	if err != nil {
		return nil, err
	}

	var notes []string
	if valueDM > typicalMaxKcalKgDM {
		notes = append(notes, fmt.Sprintf(
			"energy density %.0f kcal/kg DM exceeds the typical range (>%d); review inputs",
			valueDM, typicalMaxKcalKgDM))
	}

	value := valueDM
	basis := BasisDM
	if req.ReturnAsFed {
		if req.DMPct == nil {
			return nil, ErrMissingDryMatterPercent
		}
		value, err = units.DMToAsFed(valueDM, *req.DMPct, req.Decimals)
		if err != nil {
			return nil, err
		}
		basis = BasisAsFed
	}

	unit := req.Unit
	if unit == "" {
		unit = units.Kcal
	}
	if unit != units.Kcal {
		value, err = units.Convert(value, units.Kcal, unit)
		if err != nil {
			return nil, err
		}
		value = units.Round(value, req.Decimals)
	}

	result := &Result{
		ID:        ulid.Make().String(),
		Value:     value,
		Unit:      unit,
		Basis:     basis,
		Equation:  desc.ID,
		Output:    desc.Output,
		Variables: append([]composition.Var(nil), desc.Required...),
		Notes:     notes,
	}

	log.Info().
		Str("component", "energy").
		Str("operation", "compute").
		Str("result_id", result.ID).
		Str("equation", desc.ID).
		Float64("value", result.Value).
		Str("basis", result.Basis).
		Str("unit", string(result.Unit)).
		Int("note_count", len(result.Notes)).
		Msg("energy computation complete")

	return result, nil
}
