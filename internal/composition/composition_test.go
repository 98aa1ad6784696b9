package composition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSetAndPresence(t *testing.T) {
	r := NewRecord()

	require.NoError(t, r.Set(CP, 180))
	require.NoError(t, r.Set(EE, 35))

	assert.True(t, r.Has(CP))
	assert.False(t, r.Has(Ash))

	v, ok := r.Get(CP)
	require.True(t, ok)
	assert.Equal(t, 180.0, v)

	_, ok = r.Get(NDF)
	assert.False(t, ok)

	assert.Equal(t, []Var{CP, EE}, r.Vars())
}

func TestRecordValidation(t *testing.T) {
	r := NewRecord()

	t.Run("unknown variable", func(t *testing.T) {
		err := r.Set(Var("Lysine"), 10)
		var unknown *UnknownVariableError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "Lysine", unknown.Name)
	})

	t.Run("negative value", func(t *testing.T) {
		err := r.Set(CP, -1)
		var invalid *InvalidValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, CP, invalid.Var)
	})

	t.Run("non-finite value", func(t *testing.T) {
		var invalid *InvalidValueError
		require.ErrorAs(t, r.Set(EE, math.NaN()), &invalid)
		require.ErrorAs(t, r.Set(EE, math.Inf(1)), &invalid)
	})

	t.Run("percent bound applies to DM only", func(t *testing.T) {
		var invalid *InvalidValueError
		require.ErrorAs(t, r.Set(DM, 880), &invalid)
		require.NoError(t, r.Set(DM, 88))
		// g/kg variables may exceed 100
		require.NoError(t, r.Set(Starch, 600))
	})
}

func TestDeriveNFE(t *testing.T) {
	t.Run("derived from proximate analysis", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.Set(Ash, 50))
		require.NoError(t, r.Set(CP, 140))
		require.NoError(t, r.Set(EE, 40))
		require.NoError(t, r.Set(CF, 50))

		assert.True(t, r.DeriveNFE())
		nfe, ok := r.Get(NFE)
		require.True(t, ok)
		assert.Equal(t, 720.0, nfe)
	})

	t.Run("no-op when NFE already present", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.Set(NFE, 700))
		require.NoError(t, r.Set(Ash, 50))
		require.NoError(t, r.Set(CP, 140))
		require.NoError(t, r.Set(EE, 40))
		require.NoError(t, r.Set(CF, 50))

		assert.False(t, r.DeriveNFE())
		nfe, _ := r.Get(NFE)
		assert.Equal(t, 700.0, nfe)
	})

	t.Run("no-op when a component is missing", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.Set(Ash, 50))
		require.NoError(t, r.Set(CP, 140))
		require.NoError(t, r.Set(EE, 40))

		assert.False(t, r.DeriveNFE())
		assert.False(t, r.Has(NFE))
	})

	t.Run("negative difference clamps to zero", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.Set(Ash, 300))
		require.NoError(t, r.Set(CP, 400))
		require.NoError(t, r.Set(EE, 200))
		require.NoError(t, r.Set(CF, 200))

		assert.True(t, r.DeriveNFE())
		nfe, _ := r.Get(NFE)
		assert.Equal(t, 0.0, nfe)
	})
}

func TestDeriveDRES(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set(DOM, 800))
	require.NoError(t, r.Set(DCP, 120))
	require.NoError(t, r.Set(DEE, 30))
	require.NoError(t, r.Set(Starch, 450))
	require.NoError(t, r.Set(DADF, 40))

	assert.True(t, r.DeriveDRES())
	dres, ok := r.Get(DRES)
	require.True(t, ok)
	assert.InDelta(t, 160.0, dres, 1e-9)

	// Second call is a no-op.
	assert.False(t, r.DeriveDRES())
}

func TestClone(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set(CP, 180))

	c := r.Clone()
	require.NoError(t, c.Set(CP, 200))

	orig, _ := r.Get(CP)
	assert.Equal(t, 180.0, orig)
}
