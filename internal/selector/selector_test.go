package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/equation"
)

func availableSet(vars ...composition.Var) map[composition.Var]bool {
	set := make(map[composition.Var]bool, len(vars))
	for _, v := range vars {
		set[v] = true
	}
	return set
}

func TestListApplicableCompleteness(t *testing.T) {
	// Property: every returned equation's required set is a subset of the
	// supplied variables.
	combos := []map[composition.Var]bool{
		availableSet(composition.CP, composition.EE, composition.NFE),
		availableSet(composition.Ash, composition.CP, composition.EE, composition.NDF),
		availableSet(composition.CP),
		availableSet(composition.GE, composition.CF),
		availableSet(
			composition.Ash, composition.CP, composition.EE, composition.CF,
			composition.NDF, composition.ADF, composition.Starch, composition.Sugars,
			composition.NFE, composition.GE, composition.DE, composition.ME,
		),
	}
	for _, available := range combos {
		for _, species := range []equation.Species{equation.Poultry, equation.Swine} {
			for _, family := range []equation.Family{"corn", equation.FamilyGeneric, "soybean_meal"} {
				for _, id := range ListApplicable(species, family, available) {
					d, err := equation.Lookup(id)
					require.NoError(t, err)
					for _, v := range d.Required {
						assert.True(t, available[v],
							"equation %s returned but %s is unavailable", id, v)
					}
					assert.Equal(t, species, d.Species)
				}
			}
		}
	}
}

func TestListApplicableOrdering(t *testing.T) {
	t.Run("family-specific before generic", func(t *testing.T) {
		available := availableSet(composition.CP, composition.EE, composition.NFE)
		ids := ListApplicable(equation.Poultry, "corn", available)
		require.NotEmpty(t, ids)
		assert.Equal(t, "men_corn", ids[0])
		assert.Contains(t, ids, "men_generic_janssen")
	})

	t.Run("more required variables rank first within a tier", func(t *testing.T) {
		available := availableSet(
			composition.CP, composition.EE, composition.NFE,
			composition.Starch, composition.Sugars,
		)
		ids := ListApplicable(equation.Poultry, equation.FamilyGeneric, available)
		require.NotEmpty(t, ids)
		// Carpenter & Clegg requires four variables, the Janssen and Sibbald
		// generics three.
		assert.Equal(t, "me_carpenter_clegg", ids[0])
	})

	t.Run("deterministic tie-break by id", func(t *testing.T) {
		available := availableSet(composition.CP, composition.EE, composition.NFE)
		first := ListApplicable(equation.Poultry, equation.FamilyGeneric, available)
		second := ListApplicable(equation.Poultry, equation.FamilyGeneric, available)
		assert.Equal(t, first, second)
	})

	t.Run("wrong family falls back to generics only", func(t *testing.T) {
		available := availableSet(composition.CP, composition.EE, composition.NFE)
		ids := ListApplicable(equation.Poultry, "fish_meal", available)
		for _, id := range ids {
			d, err := equation.Lookup(id)
			require.NoError(t, err)
			if d.Family != equation.FamilyGeneric {
				assert.Equal(t, equation.Family("fish_meal"), d.Family)
			}
		}
		assert.NotContains(t, ids, "men_corn")
	})
}

func TestSelectBest(t *testing.T) {
	t.Run("returns head of list", func(t *testing.T) {
		available := availableSet(composition.Ash, composition.CP, composition.EE, composition.NDF)
		id, err := SelectBest(equation.Swine, equation.FamilyGeneric, available)
		require.NoError(t, err)
		assert.Equal(t, "me_noblet_perez", id)
	})

	t.Run("no applicable equation is a hard stop", func(t *testing.T) {
		available := availableSet(composition.Sugars)
		_, err := SelectBest(equation.Swine, equation.FamilyGeneric, available)
		var noEq *NoApplicableEquationError
		require.ErrorAs(t, err, &noEq)
		assert.Equal(t, equation.Swine, noEq.Species)
	})
}

func TestValidateManualOverride(t *testing.T) {
	t.Run("satisfied override passes", func(t *testing.T) {
		available := availableSet(composition.DE, composition.CP)
		d, err := Validate("me_from_de_and_cp", available)
		require.NoError(t, err)
		assert.Equal(t, "me_from_de_and_cp", d.ID)
	})

	t.Run("unsatisfied override rejected with missing variables", func(t *testing.T) {
		available := availableSet(composition.Ash, composition.CP)
		_, err := Validate("me_noblet_perez", available)
		var unsat *UnsatisfiedEquationError
		require.ErrorAs(t, err, &unsat)
		assert.Equal(t, "me_noblet_perez", unsat.ID)
		assert.Equal(t, []composition.Var{composition.EE, composition.NDF}, unsat.Missing)
	})

	t.Run("unknown equation id", func(t *testing.T) {
		_, err := Validate("nonexistent", availableSet(composition.CP))
		var unknown *equation.UnknownEquationError
		require.ErrorAs(t, err, &unknown)
	})
}

func TestAvailableFromRecord(t *testing.T) {
	rec := composition.NewRecord()
	require.NoError(t, rec.Set(composition.CP, 180))
	require.NoError(t, rec.Set(composition.EE, 35))

	set := Available(rec)
	assert.True(t, set[composition.CP])
	assert.True(t, set[composition.EE])
	assert.False(t, set[composition.NDF])
}
