// Package requirement models nutrient-requirement reference tables and
// scales them proportionally to a target dietary energy density. The source
// table is immutable reference data: scaling always returns a fresh copy.
package requirement

import (
	"math"
)

// Row is one nutrient requirement entry. Pointer fields are optional
// reference data; nil means absent (unbounded, or no reference point).
type Row struct {
	Nutrient   string  `json:"nutrient"`
	ValuePerKg float64 `json:"value_per_kg"`
	Unit       string  `json:"unit"`
	Scalable   bool    `json:"scalable"`
	// MinAbsolute is a floor applied after scaling, and the only adjustment
	// non-scalable nutrients receive.
	MinAbsolute *float64 `json:"min_absolute,omitempty"`
	// Max is a ceiling applied after scaling.
	Max *float64 `json:"max,omitempty"`
	// ReferenceEnergy is the energy density (kcal/kg) at which ValuePerKg is
	// valid. Nil or zero disables scaling for the row.
	ReferenceEnergy *float64 `json:"reference_energy,omitempty"`
	Species         string   `json:"species,omitempty"`
	Stage           string   `json:"stage,omitempty"`
}

// Scale returns a new slice where each scalable row's value is rescaled by
// targetEnergy/ReferenceEnergy and clamped to its declared bounds. Rows
// without a valid nonzero reference energy pass through unchanged: reference
// gaps are expected in partially curated tables and are not errors.
// Non-scalable rows are only floored at MinAbsolute. Input order is
// preserved; the input slice is never mutated.
func Scale(rows []Row, targetEnergy float64) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row

		if row.ReferenceEnergy == nil || *row.ReferenceEnergy == 0 {
			continue
		}

		if !row.Scalable {
			if row.MinAbsolute != nil {
				out[i].ValuePerKg = math.Max(row.ValuePerKg, *row.MinAbsolute)
			}
			continue
		}

		scaled := row.ValuePerKg * (targetEnergy / *row.ReferenceEnergy)
		if row.MinAbsolute != nil {
			scaled = math.Max(scaled, *row.MinAbsolute)
		}
		if row.Max != nil {
			scaled = math.Min(scaled, *row.Max)
		}
		out[i].ValuePerKg = scaled
	}
	return out
}

// Filter returns the rows matching species and stage; empty selectors match
// everything. Order is preserved.
func Filter(rows []Row, species, stage string) []Row {
	var out []Row
	for _, row := range rows {
		if species != "" && row.Species != species {
			continue
		}
		if stage != "" && row.Stage != stage {
			continue
		}
		out = append(out, row)
	}
	return out
}
