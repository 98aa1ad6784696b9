// Package composition models laboratory feed-composition data as a typed
// record over a closed set of analytical variables. Presence or absence of a
// variable is a first-class query, so equation applicability never depends on
// incidental map membership.
package composition

import (
	"fmt"
	"math"
	"sort"
)

// Var names one analytical variable. The set is closed: every variable an
// equation can require is declared here.
type Var string

// Proximate analysis and energy variables. Unless noted, values are expressed
// in grams per kilogram of dry matter.
const (
	DM     Var = "DM" // dry matter content, percent
	Ash    Var = "Ash"
	CP     Var = "CP" // crude protein
	EE     Var = "EE" // ether extract (fat)
	CF     Var = "CF" // crude fiber
	NDF    Var = "NDF"
	ADF    Var = "ADF"
	Starch Var = "Starch"
	Sugars Var = "Sugars"
	NFE    Var = "NFE" // nitrogen-free extract
	GE     Var = "GE"  // gross energy, kcal/kg DM
	DE     Var = "DE"  // digestible energy, kcal/kg DM
	ME     Var = "ME"  // metabolizable energy, kcal/kg DM

	// Digestible fractions used by the swine net-energy chain.
	DCP  Var = "DCP"  // digestible crude protein
	DEE  Var = "DEE"  // digestible ether extract
	DOM  Var = "DOM"  // digestible organic matter
	DADF Var = "DADF" // digestible ADF
	DRES Var = "DRES" // digestible residue

	// "Functional" digestible fractions (hydrolyzed fat, enzymatically
	// degradable starch, enzyme-digestible sugars, fermentable carbohydrates).
	DEEh     Var = "DEEh"
	StarchAm Var = "StarchAm"
	SugE     Var = "SugE"
	FCH      Var = "FCH"
)

// percentVars lists variables expressed as a percentage and therefore bounded
// by [0,100]. Everything else is g/kg DM or kcal/kg DM and only needs to be
// finite and non-negative.
var percentVars = map[Var]bool{
	DM: true,
}

// known is the closed variable set.
var known = map[Var]bool{
	DM: true, Ash: true, CP: true, EE: true, CF: true, NDF: true, ADF: true,
	Starch: true, Sugars: true, NFE: true, GE: true, DE: true, ME: true,
	DCP: true, DEE: true, DOM: true, DADF: true, DRES: true,
	DEEh: true, StarchAm: true, SugE: true, FCH: true,
}

// IsKnown reports whether name is a declared analytical variable.
func IsKnown(name Var) bool {
	return known[name]
}

// InvalidValueError reports an analyte value that violates its bounds.
type InvalidValueError struct {
	Var    Var
	Value  float64
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %.4g for %s: %s", e.Value, string(e.Var), e.Reason)
}

// UnknownVariableError reports a variable name outside the closed set.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown analytical variable %q", e.Name)
}

// Record is a composition record: a partial assignment of values to the
// closed variable set. The zero value is an empty record.
type Record struct {
	values map[Var]float64
}

// NewRecord returns an empty composition record.
func NewRecord() *Record {
	return &Record{values: make(map[Var]float64)}
}

// Set stores a value after validating it against the variable's bounds.
func (r *Record) Set(v Var, value float64) error {
	if !known[v] {
		return &UnknownVariableError{Name: string(v)}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &InvalidValueError{Var: v, Value: value, Reason: "not a finite number"}
	}
	if value < 0 {
		return &InvalidValueError{Var: v, Value: value, Reason: "negative"}
	}
	if percentVars[v] && value > 100 {
		return &InvalidValueError{Var: v, Value: value, Reason: "percentage above 100"}
	}
	if r.values == nil {
		r.values = make(map[Var]float64)
	}
	r.values[v] = value
	return nil
}

// Has reports whether v is present.
func (r *Record) Has(v Var) bool {
	_, ok := r.values[v]
	return ok
}

// Get returns the value of v and whether it is present.
func (r *Record) Get(v Var) (float64, bool) {
	value, ok := r.values[v]
	return value, ok
}

// Vars returns the present variables in lexicographic order.
func (r *Record) Vars() []Var {
	out := make([]Var, 0, len(r.values))
	for v := range r.values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	c := NewRecord()
	for v, value := range r.values {
		c.values[v] = value
	}
	return c
}

// DeriveNFE fills in the nitrogen-free extract fraction by difference,
// NFE = 1000 − (Ash + CP + EE + CF) on the g/kg DM scale, when NFE is absent
// and all four components are present. A negative difference is clamped to
// zero rather than rejected: it indicates assay noise, not a caller error.
// Reports whether a derivation happened.
func (r *Record) DeriveNFE() bool {
	if r.Has(NFE) {
		return false
	}
	ash, ok1 := r.Get(Ash)
	cp, ok2 := r.Get(CP)
	ee, ok3 := r.Get(EE)
	cf, ok4 := r.Get(CF)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	nfe := 1000 - (ash + cp + ee + cf)
	if nfe < 0 {
		nfe = 0
	}
	r.values[NFE] = nfe
	return true
}

// DeriveDRES fills in the digestible residue for the digestible-fraction
// net-energy equation, DRES = DOM − (DCP + DEE + Starch + DADF), when DRES is
// absent and all components are present. Reports whether a derivation
// happened.
func (r *Record) DeriveDRES() bool {
	if r.Has(DRES) {
		return false
	}
	dom, ok1 := r.Get(DOM)
	dcp, ok2 := r.Get(DCP)
	dee, ok3 := r.Get(DEE)
	starch, ok4 := r.Get(Starch)
	dadf, ok5 := r.Get(DADF)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return false
	}
	dres := dom - (dcp + dee + starch + dadf)
	if dres < 0 {
		dres = 0
	}
	r.values[DRES] = dres
	return true
}
