package equation

import (
	"github.com/uywa/nutrienergia/internal/composition"
)

// Poultry MEn/TMEn catalog, WPSA-style per-family regressions plus generics.
// All coefficients in this file were calibrated against percent-of-DM inputs;
// the descriptors say so explicitly and Evaluate divides the caller's g/kg DM
// values by 10 exactly once before invoking the evaluator.
//
//nolint:funlen // Flat registration list; splitting it would obscure the catalog.
func init() {
	// Cereal grains.
	register(Descriptor{
		ID:         "men_corn",
		Species:    Poultry,
		Family:     "corn",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), maize",
		eval: func(v values) float64 {
			return 36.21*v[composition.CP] + 85.44*v[composition.EE] + 37.26*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_sorghum",
		Species:    Poultry,
		Family:     "sorghum",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), sorghum",
		eval: func(v values) float64 {
			return 21.98*v[composition.CP] + 54.75*v[composition.EE] + 35.18*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_wheat",
		Species:    Poultry,
		Family:     "wheat",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), wheat",
		eval: func(v values) float64 {
			return 34.92*v[composition.CP] + 63.10*v[composition.EE] + 36.42*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_barley",
		Species:    Poultry,
		Family:     "barley",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), barley",
		eval: func(v values) float64 {
			return 34.49*v[composition.CP] + 62.92*v[composition.EE] + 32.79*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:      "men_cereal_byproduct",
		Species: Poultry,
		Family:  "cereal_byproduct",
		Required: []composition.Var{
			composition.CP, composition.EE, composition.NFE, composition.CF,
		},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), milling by-products",
		eval: func(v values) float64 {
			return 34.60*v[composition.CP] + 62.61*v[composition.EE] +
				31.70*v[composition.NFE] - 18.52*v[composition.CF]
		},
	})

	// Protein meals.
	register(Descriptor{
		ID:         "men_soybean_meal",
		Species:    Poultry,
		Family:     "soybean_meal",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), soybean meal",
		eval: func(v values) float64 {
			return 37.50*v[composition.CP] + 46.39*v[composition.EE] + 14.90*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_rapeseed_meal",
		Species:    Poultry,
		Family:     "rapeseed_meal",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), rapeseed meal",
		eval: func(v values) float64 {
			return 31.70*v[composition.CP] + 57.40*v[composition.EE] + 21.79*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_sunflower_meal",
		Species:    Poultry,
		Family:     "sunflower_meal",
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), sunflower meal",
		eval: func(v values) float64 {
			return 35.35*v[composition.CP] + 57.73*v[composition.EE] + 22.11*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_animal_protein",
		Species:    Poultry,
		Family:     "animal_protein",
		Required:   []composition.Var{composition.CP, composition.EE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), meat and bone meal",
		eval: func(v values) float64 {
			return 35.87*v[composition.CP] + 79.66*v[composition.EE]
		},
	})

	register(Descriptor{
		ID:         "men_fish_meal",
		Species:    Poultry,
		Family:     "fish_meal",
		Required:   []composition.Var{composition.CP, composition.EE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), fish meal",
		eval: func(v values) float64 {
			return 36.42*v[composition.CP] + 72.34*v[composition.EE]
		},
	})

	// Fats and oils: essentially all ether extract.
	register(Descriptor{
		ID:         "men_fat_oil",
		Species:    Poultry,
		Family:     "fat",
		Required:   []composition.Var{composition.EE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Wiseman (1984), fats and oils",
		eval: func(v values) float64 {
			return 88.52 * v[composition.EE]
		},
	})

	// Generics: applicable regardless of family, ranked after family-specific
	// matches by the selector.
	register(Descriptor{
		ID:         "men_generic_janssen",
		Species:    Poultry,
		Family:     FamilyGeneric,
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Janssen (1989), all feedstuffs",
		eval: func(v values) float64 {
			return 36.03*v[composition.CP] + 76.13*v[composition.EE] + 30.90*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:      "me_carpenter_clegg",
		Species: Poultry,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.CP, composition.EE, composition.Starch, composition.Sugars,
		},
		Convention: PercentDM,
		Output:     OutputME,
		Source:     "Carpenter & Clegg (1956)",
		eval: func(v values) float64 {
			return 53 + 38*(v[composition.CP]+2.25*v[composition.EE]+
				1.1*v[composition.Starch]+v[composition.Sugars])
		},
	})

	register(Descriptor{
		ID:      "men_generic_nrc",
		Species: Poultry,
		Family:  FamilyGeneric,
		Required: []composition.Var{
			composition.EE, composition.CF, composition.Ash,
		},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "NRC (1994), proximate generic",
		eval: func(v values) float64 {
			return 3951 + 54.4*v[composition.EE] - 88.7*v[composition.CF] - 40.8*v[composition.Ash]
		},
	})

	register(Descriptor{
		ID:         "tmen_generic",
		Species:    Poultry,
		Family:     FamilyGeneric,
		Required:   []composition.Var{composition.CP, composition.EE, composition.NFE},
		Convention: PercentDM,
		Output:     OutputTMEn,
		Source:     "Sibbald (1986), true ME bioassay regression",
		eval: func(v values) float64 {
			return 36.45*v[composition.CP] + 82.82*v[composition.EE] + 35.74*v[composition.NFE]
		},
	})

	register(Descriptor{
		ID:         "men_generic_ge",
		Species:    Poultry,
		Family:     FamilyGeneric,
		Required:   []composition.Var{composition.GE, composition.CF},
		Convention: PercentDM,
		Output:     OutputMEn,
		Source:     "Härtel (1986), GE with fiber penalty",
		eval: func(v values) float64 {
			return 0.82*v[composition.GE] - 45.2*v[composition.CF]
		},
	})
}
