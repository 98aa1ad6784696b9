package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestScaleProportional(t *testing.T) {
	rows := []Row{{
		Nutrient:        "lisina",
		ValuePerKg:      10,
		Unit:            "g/kg",
		Scalable:        true,
		ReferenceEnergy: floatPtr(3000),
	}}

	scaled := Scale(rows, 3300)
	require.Len(t, scaled, 1)
	assert.InDelta(t, 11, scaled[0].ValuePerKg, 1e-9)
}

func TestScaleIdempotentAtReferencePoint(t *testing.T) {
	rows := []Row{
		{Nutrient: "lisina", ValuePerKg: 12.5, Scalable: true, ReferenceEnergy: floatPtr(3100)},
		{Nutrient: "metionina", ValuePerKg: 4.2, Scalable: true, ReferenceEnergy: floatPtr(3100)},
	}
	scaled := Scale(rows, 3100)
	for i, row := range scaled {
		assert.InDelta(t, rows[i].ValuePerKg, row.ValuePerKg, 1e-9, "row %s", row.Nutrient)
	}
}

func TestScaleMonotonicity(t *testing.T) {
	row := Row{Nutrient: "lisina", ValuePerKg: 10, Scalable: true, ReferenceEnergy: floatPtr(3000)}
	prev := 0.0
	for _, target := range []float64{2500, 3000, 3500, 4000} {
		got := Scale([]Row{row}, target)[0].ValuePerKg
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestScaleClamping(t *testing.T) {
	t.Run("ceiling clamps exactly to max", func(t *testing.T) {
		// Raw 20 * 4500/3000 = 30, already at max; push further to prove the clamp.
		row := Row{
			Nutrient:        "calcio",
			ValuePerKg:      20,
			Scalable:        true,
			ReferenceEnergy: floatPtr(3000),
			MinAbsolute:     floatPtr(5),
			Max:             floatPtr(30),
		}
		scaled := Scale([]Row{row}, 4500)
		assert.Equal(t, 30.0, scaled[0].ValuePerKg)

		scaled = Scale([]Row{row}, 6000)
		assert.Equal(t, 30.0, scaled[0].ValuePerKg)
	})

	t.Run("floor clamps to min_absolute", func(t *testing.T) {
		row := Row{
			Nutrient:        "sodio",
			ValuePerKg:      2,
			Scalable:        true,
			ReferenceEnergy: floatPtr(3000),
			MinAbsolute:     floatPtr(1.8),
		}
		scaled := Scale([]Row{row}, 1500)
		assert.Equal(t, 1.8, scaled[0].ValuePerKg)
	})

	t.Run("missing bound means unbounded on that side", func(t *testing.T) {
		row := Row{Nutrient: "fosforo", ValuePerKg: 5, Scalable: true, ReferenceEnergy: floatPtr(3000)}
		scaled := Scale([]Row{row}, 9000)
		assert.InDelta(t, 15, scaled[0].ValuePerKg, 1e-9)
	})
}

func TestScaleNonScalable(t *testing.T) {
	t.Run("floored at min_absolute", func(t *testing.T) {
		row := Row{
			Nutrient:        "vitamina_e",
			ValuePerKg:      15,
			Scalable:        false,
			ReferenceEnergy: floatPtr(3000),
			MinAbsolute:     floatPtr(20),
		}
		scaled := Scale([]Row{row}, 4500)
		assert.Equal(t, 20.0, scaled[0].ValuePerKg)
	})

	t.Run("unchanged without a floor", func(t *testing.T) {
		row := Row{
			Nutrient:        "colina",
			ValuePerKg:      15,
			Scalable:        false,
			ReferenceEnergy: floatPtr(3000),
		}
		scaled := Scale([]Row{row}, 4500)
		assert.Equal(t, 15.0, scaled[0].ValuePerKg)
	})
}

func TestScaleMissingReferencePassesThrough(t *testing.T) {
	rows := []Row{
		{Nutrient: "no_ref", ValuePerKg: 7, Scalable: true},
		{Nutrient: "zero_ref", ValuePerKg: 9, Scalable: true, ReferenceEnergy: floatPtr(0)},
	}
	scaled := Scale(rows, 4000)
	assert.Equal(t, 7.0, scaled[0].ValuePerKg)
	assert.Equal(t, 9.0, scaled[1].ValuePerKg)
}

func TestScaleIsPure(t *testing.T) {
	rows := []Row{
		{Nutrient: "lisina", ValuePerKg: 10, Scalable: true, ReferenceEnergy: floatPtr(3000)},
		{Nutrient: "metionina", ValuePerKg: 4, Scalable: true, ReferenceEnergy: floatPtr(3000)},
	}
	scaled := Scale(rows, 4500)

	// Input untouched.
	assert.Equal(t, 10.0, rows[0].ValuePerKg)
	assert.Equal(t, 4.0, rows[1].ValuePerKg)

	// Output order matches input order: consumers display and export this
	// order.
	assert.Equal(t, "lisina", scaled[0].Nutrient)
	assert.Equal(t, "metionina", scaled[1].Nutrient)
}

func TestFilter(t *testing.T) {
	rows := []Row{
		{Nutrient: "lisina", Species: "broiler", Stage: "engorde"},
		{Nutrient: "lisina", Species: "broiler", Stage: "iniciador"},
		{Nutrient: "lisina", Species: "cerdo", Stage: "engorde"},
	}

	got := Filter(rows, "broiler", "engorde")
	require.Len(t, got, 1)
	assert.Equal(t, "broiler", got[0].Species)

	assert.Len(t, Filter(rows, "broiler", ""), 2)
	assert.Len(t, Filter(rows, "", ""), 3)
}
