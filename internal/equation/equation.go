// Package equation holds the catalog of published empirical regressions for
// feed energy values. Each equation is a declarative descriptor (species,
// ingredient family, required variables, input-unit convention, output kind)
// paired with a pure evaluator. The catalog is registered once at process
// start and never mutated, so concurrent reads need no coordination.
package equation

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/units"
)

// CatalogVersion identifies the curated equation set. Bumped when equations
// are added or coefficients corrected; consumers can pin a compatible range.
const CatalogVersion = "1.4.0"

// Species selects the animal species an equation was calibrated for.
type Species string

// Supported species.
const (
	Poultry Species = "poultry"
	Swine   Species = "swine"
)

// Family is an ingredient family token ("corn", "soybean_meal", ...).
// FamilyGeneric marks equations applicable to any ingredient.
type Family string

// FamilyGeneric matches every ingredient family.
const FamilyGeneric Family = "generic"

// Convention declares the unit basis the equation's published coefficients
// were calibrated against. Two numerically distinct conventions exist in the
// literature; each descriptor states its own explicitly, it is never
// inferred. Callers always supply g/kg DM and Evaluate converts exactly once.
type Convention int

const (
	// GramsPerKgDM: coefficients expect inputs in g/kg of dry matter.
	GramsPerKgDM Convention = iota
	// PercentDM: coefficients expect inputs as percent of dry matter.
	PercentDM
)

// String returns the literature notation for the convention.
func (c Convention) String() string {
	if c == PercentDM {
		return "% DM"
	}
	return "g/kg DM"
}

// Output is the energy quantity an equation yields, always kcal/kg DM.
type Output string

// Energy quantity kinds.
const (
	OutputME   Output = "ME"
	OutputMEn  Output = "MEn"
	OutputNE   Output = "NE"
	OutputTMEn Output = "TMEn"
)

// values holds the required inputs after conversion to the descriptor's
// convention, keyed by variable.
type values map[composition.Var]float64

// Descriptor declares one catalog equation.
type Descriptor struct {
	// ID is the stable equation identifier used for manual selection.
	ID string
	// Species the regression was calibrated for.
	Species Species
	// Family the regression applies to, or FamilyGeneric.
	Family Family
	// Required lists the input variables, in the order they are consumed.
	Required []composition.Var
	// Convention the published coefficients expect.
	Convention Convention
	// Output energy quantity kind.
	Output Output
	// Source cites the publication the coefficients come from.
	Source string

	eval func(v values) float64
}

// MissingVariableError reports a required analytical input that is absent.
// Equations never substitute defaults for missing lab data.
type MissingVariableError struct {
	Equation string
	Var      composition.Var
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("equation %s: missing required variable %s", e.Equation, string(e.Var))
}

// UnknownEquationError reports a manual method name not present in the catalog.
type UnknownEquationError struct {
	ID string
}

func (e *UnknownEquationError) Error() string {
	return fmt.Sprintf("unknown equation %q", e.ID)
}

// registry is populated by the catalog files' init functions and read-only
// afterwards.
var registry = map[string]Descriptor{}

func register(d Descriptor) {
	if _, exists := registry[d.ID]; exists {
		panic(fmt.Sprintf("equation %s registered twice", d.ID))
	}
	registry[d.ID] = d
}

// Lookup returns the descriptor for id.
func Lookup(id string) (Descriptor, error) {
	d, ok := registry[id]
	if !ok {
		return Descriptor{}, &UnknownEquationError{ID: id}
	}
	return d, nil
}

// All returns every registered descriptor, ordered by ID.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// energyVars are expressed in kcal/kg DM and are never rescaled when a
// descriptor expects percent-of-DM mass fractions.
var energyVars = map[composition.Var]bool{
	composition.GE: true,
	composition.DE: true,
	composition.ME: true,
}

// toConvention converts one g/kg DM input value to the descriptor's expected
// convention. 100% of DM is 1000 g/kg, so PercentDM divides by 10.
func toConvention(v composition.Var, raw float64, c Convention) float64 {
	if c == PercentDM && !energyVars[v] && v != composition.DM {
		return raw / 10
	}
	return raw
}

// Evaluate checks the descriptor's required variables against rec, converts
// them to the declared convention, and runs the evaluator. The result is in
// kcal/kg DM, rounded to decimals. Fails with MissingVariableError when any
// required input is absent; no defaults are ever substituted.
func Evaluate(d Descriptor, rec *composition.Record, decimals int) (float64, error) {
	in := make(values, len(d.Required))
	for _, v := range d.Required {
		raw, ok := rec.Get(v)
		if !ok {
			return 0, &MissingVariableError{Equation: d.ID, Var: v}
		}
		in[v] = toConvention(v, raw, d.Convention)
	}
	return round(d.eval(in), decimals), nil
}

// Satisfied reports whether every required variable of d is present in the
// available set.
func Satisfied(d Descriptor, available map[composition.Var]bool) bool {
	for _, v := range d.Required {
		if !available[v] {
			return false
		}
	}
	return true
}

// MissingFor returns the required variables of d absent from available, in
// declaration order.
func MissingFor(d Descriptor, available map[composition.Var]bool) []composition.Var {
	var missing []composition.Var
	for _, v := range d.Required {
		if !available[v] {
			missing = append(missing, v)
		}
	}
	return missing
}

// CheckCatalogConstraint validates CatalogVersion against a semver range
// such as "^1.0.0". Used by callers that pin the equation set they were
// validated against.
func CheckCatalogConstraint(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing catalog constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(CatalogVersion)
	if err != nil {
		return fmt.Errorf("parsing catalog version %q: %w", CatalogVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("equation catalog %s does not satisfy constraint %q", CatalogVersion, constraint)
	}
	return nil
}

func round(v float64, decimals int) float64 {
	return units.Round(v, decimals)
}
