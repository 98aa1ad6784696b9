package energy

import (
	"errors"
	"fmt"
	"math"
)

// minPlausibleFeedIntake is the feed intake (kg/day) below which the derived
// energy density gets an advisory note.
const minPlausibleFeedIntake = 0.5

// StageParams holds the regression coefficients for one animal category's
// factorial energy model, one row of the per-stage parameter table.
// Maintenance follows a power law on live weight, the thermal term is a
// hinge below the lower critical temperature, and the two production
// channels (protein and fat deposition, or their stage equivalents such as
// conceptus gain or egg mass) convert retained energy through partial
// efficiencies.
type StageParams struct {
	// Category is the row key (e.g. "barrow_25_50", "gilt_50_100").
	Category string
	// A and B parameterize maintenance: MEmaint = A * LW^B (kcal/day).
	A float64
	B float64
	// S scales the thermal term: MEtherm = S * max(0, TCI - Tamb).
	S float64
	// TCIBase is the default lower critical temperature (°C).
	TCIBase float64
	// EP, EG are the energy contents of retained protein and fat (kcal/g).
	EP float64
	EG float64
	// KP, KG are the partial efficiencies of ME use for protein and fat.
	KP float64
	KG float64
}

// Validate rejects parameter rows that would make the model meaningless.
func (p StageParams) Validate() error {
	if p.Category == "" {
		return errors.New("stage params: empty category")
	}
	if p.A <= 0 || p.B <= 0 {
		return fmt.Errorf("stage params %s: maintenance coefficients must be positive", p.Category)
	}
	if p.KP <= 0 || p.KG <= 0 {
		return fmt.Errorf("stage params %s: partial efficiencies must be positive", p.Category)
	}
	return nil
}

// GrowthInputs are the animal-level inputs to the factorial model.
type GrowthInputs struct {
	// LiveWeight in kg.
	LiveWeight float64
	// DailyGain in g/day (or the stage's production rate: conceptus gain,
	// egg mass output).
	DailyGain float64
	// ProteinFrac and FatFrac partition the daily gain (0..1 each).
	ProteinFrac float64
	FatFrac     float64
	// AmbientTemp in °C.
	AmbientTemp float64
	// TCI overrides the parameter row's lower critical temperature when set.
	TCI *float64
}

// Maintenance returns the maintenance requirement A·LW^B in kcal/day.
func (p StageParams) Maintenance(liveWeight float64) float64 {
	return p.A * math.Pow(liveWeight, p.B)
}

// Thermal returns the extra thermoregulation requirement, zero at or above
// the lower critical temperature.
func (p StageParams) Thermal(tci, ambient float64) float64 {
	return p.S * math.Max(0, tci-ambient)
}

// Growth returns the requirement for tissue deposition: retained energy per
// channel divided by its partial efficiency.
func (p StageParams) Growth(dailyGain, proteinFrac, fatFrac float64) float64 {
	gainP := dailyGain * proteinFrac
	gainG := dailyGain * fatFrac
	return (gainP*p.EP)/p.KP + (gainG*p.EG)/p.KG
}

// TotalME sums maintenance, thermal and growth terms in kcal/day.
func (p StageParams) TotalME(in GrowthInputs) float64 {
	tci := p.TCIBase
	if in.TCI != nil {
		tci = *in.TCI
	}
	return p.Maintenance(in.LiveWeight) +
		p.Thermal(tci, in.AmbientTemp) +
		p.Growth(in.DailyGain, in.ProteinFrac, in.FatFrac)
}

// RequiredDensity converts a daily requirement (kcal/day) and a feed intake
// (kg/day) into the dietary energy density (kcal/kg) the requirement table
// is scaled against. Advisory notes flag implausible intakes and densities;
// they never abort the computation.
func RequiredDensity(totalME, feedIntake float64) (float64, []string, error) {
	if feedIntake <= 0 {
		return 0, nil, fmt.Errorf("feed intake must be positive, got %.3g kg/day", feedIntake)
	}

	density := totalME / feedIntake

	var notes []string
	if feedIntake < minPlausibleFeedIntake {
		notes = append(notes, fmt.Sprintf(
			"feed intake %.2f kg/day below plausible minimum %.1f; review",
			feedIntake, minPlausibleFeedIntake))
	}
	if density > typicalMaxKcalKgDM {
		notes = append(notes, fmt.Sprintf(
			"required energy density %.0f kcal/kg exceeds the typical range (>%d); review parameters or intake",
			density, typicalMaxKcalKgDM))
	}
	return density, notes, nil
}
