// Package selector decides which catalog equations are applicable to a set
// of available analytical variables, and which single one to use when the
// choice is automatic.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/equation"
)

// NoApplicableEquationError reports that no registered equation's
// requirements are satisfiable from the given inputs. Hard stop for the
// request: no computation is possible.
type NoApplicableEquationError struct {
	Species equation.Species
	Family  equation.Family
}

func (e *NoApplicableEquationError) Error() string {
	return fmt.Sprintf("no applicable equation for species %s, family %s with the available variables",
		string(e.Species), string(e.Family))
}

// UnsatisfiedEquationError reports a manually chosen equation whose required
// variables are not all present.
type UnsatisfiedEquationError struct {
	ID      string
	Missing []composition.Var
}

func (e *UnsatisfiedEquationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, v := range e.Missing {
		names[i] = string(v)
	}
	return fmt.Sprintf("equation %s requirements not met: missing %s", e.ID, strings.Join(names, ", "))
}

// Available builds the presence set for a composition record.
func Available(rec *composition.Record) map[composition.Var]bool {
	set := make(map[composition.Var]bool)
	for _, v := range rec.Vars() {
		set[v] = true
	}
	return set
}

// ListApplicable returns every registered equation whose full required
// variable set is present in available, filtered to species and to either an
// exact family match or family-generic equations.
//
// Ordering is a heuristic for expected accuracy, not a validated accuracy
// ranking: family-specific matches rank before generics, then equations
// consuming more of the available evidence rank first, then ID for
// determinism.
func ListApplicable(
	species equation.Species,
	family equation.Family,
	available map[composition.Var]bool,
) []string {
	var matched []equation.Descriptor
	for _, d := range equation.All() {
		if d.Species != species {
			continue
		}
		if d.Family != family && d.Family != equation.FamilyGeneric {
			continue
		}
		if !equation.Satisfied(d, available) {
			continue
		}
		matched = append(matched, d)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		iSpecific := matched[i].Family != equation.FamilyGeneric
		jSpecific := matched[j].Family != equation.FamilyGeneric
		if iSpecific != jSpecific {
			return iSpecific
		}
		if len(matched[i].Required) != len(matched[j].Required) {
			return len(matched[i].Required) > len(matched[j].Required)
		}
		return matched[i].ID < matched[j].ID
	})

	ids := make([]string, len(matched))
	for i, d := range matched {
		ids[i] = d.ID
	}
	return ids
}

// SelectBest returns the head of ListApplicable, or NoApplicableEquationError
// when the list is empty.
func SelectBest(
	species equation.Species,
	family equation.Family,
	available map[composition.Var]bool,
) (string, error) {
	ids := ListApplicable(species, family, available)
	if len(ids) == 0 {
		return "", &NoApplicableEquationError{Species: species, Family: family}
	}
	return ids[0], nil
}

// Validate checks a manually chosen equation id against the available
// variables, returning its descriptor when satisfied.
func Validate(id string, available map[composition.Var]bool) (equation.Descriptor, error) {
	d, err := equation.Lookup(id)
	if err != nil {
		return equation.Descriptor{}, err
	}
	if missing := equation.MissingFor(d, available); len(missing) > 0 {
		return equation.Descriptor{}, &UnsatisfiedEquationError{ID: id, Missing: missing}
	}
	return d, nil
}
