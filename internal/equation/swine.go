package equation

import (
	"github.com/uywa/nutrienergia/internal/composition"
)

// Swine ME and NE chain. All coefficients calibrated against g/kg DM inputs
// (energy terms in kcal/kg DM). The maintenance DE→ME bridge, the
// composition-based ME estimator and the four NE estimators are distinct
// published regressions with their own variable sets, selectable
// independently.
func init() {
	register(Descriptor{
		ID:         "me_from_de_and_cp",
		Species:    Swine,
		Family:     FamilyGeneric,
		Required:   []composition.Var{composition.DE, composition.CP},
		Convention: GramsPerKgDM,
		Output:     OutputME,
		Source:     "Noblet et al. (1994), DE-ME bridge",
		eval: func(v values) float64 {
			return 1.00*v[composition.DE] - 0.68*v[composition.CP]
		},
	})

	register(Descriptor{
		ID:      "me_noblet_perez",
		Species: Swine,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.Ash, composition.CP, composition.EE, composition.NDF,
		},
		Convention: GramsPerKgDM,
		Output:     OutputME,
		Source:     "Noblet & Perez (1993)",
		eval: func(v values) float64 {
			return 4194 - 9.2*v[composition.Ash] + 1.0*v[composition.CP] +
				4.1*v[composition.EE] - 3.5*v[composition.NDF]
		},
	})

	register(Descriptor{
		ID:      "ne_from_me_and_comp",
		Species: Swine,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.ME, composition.EE, composition.Starch,
			composition.CP, composition.ADF,
		},
		Convention: GramsPerKgDM,
		Output:     OutputNE,
		Source:     "Noblet et al. (1994), eq. NE2",
		eval: func(v values) float64 {
			return 0.726*v[composition.ME] + 1.33*v[composition.EE] +
				0.39*v[composition.Starch] - 0.62*v[composition.CP] -
				0.83*v[composition.ADF]
		},
	})

	register(Descriptor{
		ID:      "ne_from_de_and_comp",
		Species: Swine,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.DE, composition.EE, composition.Starch,
			composition.CP, composition.ADF,
		},
		Convention: GramsPerKgDM,
		Output:     OutputNE,
		Source:     "Noblet et al. (1994), eq. NE4",
		eval: func(v values) float64 {
			return 0.700*v[composition.DE] + 1.61*v[composition.EE] +
				0.48*v[composition.Starch] - 0.91*v[composition.CP] -
				0.87*v[composition.ADF]
		},
	})

	// DRES is derivable from DOM − (DCP + DEE + Starch + DADF); the facade
	// performs that derivation before selection, so the descriptor requires
	// DRES itself.
	register(Descriptor{
		ID:      "ne_from_digestibles",
		Species: Swine,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.DCP, composition.DEE, composition.Starch, composition.DRES,
		},
		Convention: GramsPerKgDM,
		Output:     OutputNE,
		Source:     "Noblet et al. (1994), digestible-nutrient basis",
		eval: func(v values) float64 {
			return 2.73*v[composition.DCP] + 8.37*v[composition.DEE] +
				3.44*v[composition.Starch] + 2.89*v[composition.DRES]
		},
	})

	register(Descriptor{
		ID:      "ne_from_functional_digestibles",
		Species: Swine,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.DCP, composition.DEEh, composition.StarchAm,
			composition.SugE, composition.FCH,
		},
		Convention: GramsPerKgDM,
		Output:     OutputNE,
		Source:     "CVB (2003), functional digestible fractions",
		eval: func(v values) float64 {
			return 2.80*v[composition.DCP] + 8.54*v[composition.DEEh] +
				3.38*v[composition.StarchAm] + 3.05*v[composition.SugE] +
				2.33*v[composition.FCH]
		},
	})
}
