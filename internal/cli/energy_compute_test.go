package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uywa/nutrienergia/internal/energy"
)

func TestEnergyComputeCmdJSON(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"--species", "poultry", "--family", "corn",
		"--input", "CP=180", "--input", "EE=35", "--input", "NFE=700",
		"--output", "json",
	})
	require.NoError(t, cmd.Execute())

	var result energy.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "men_corn", result.Equation)
	assert.Equal(t, 3559.0, result.Value)
	assert.Equal(t, "DM", result.Basis)
	assert.NotEmpty(t, result.ID)
}

func TestEnergyComputeCmdTable(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--species", "poultry", "--family", "corn",
		"--input", "CP=180", "--input", "EE=35", "--input", "NFE=700",
		"--output", "table",
	})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "men_corn")
	assert.Contains(t, out.String(), "MEn")
}

func TestEnergyComputeCmdCSV(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--species", "poultry", "--family", "corn",
		"--input", "CP=180", "--input", "EE=35", "--input", "NFE=700",
		"--output", "csv",
	})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "equation")
	assert.Contains(t, out.String(), "3559")
}

func TestEnergyComputeCmdDefaultComposition(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--species", "poultry", "--output", "json"})
	require.NoError(t, cmd.Execute())

	var result energy.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Positive(t, result.Value)

	found := false
	for _, note := range result.Notes {
		if note == "computed from the generic default composition, not laboratory data" {
			found = true
		}
	}
	assert.True(t, found, "expected a default-composition note, got %v", result.Notes)
}

func TestEnergyComputeCmdAsFed(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--species", "poultry", "--family", "corn",
		"--input", "CP=180", "--input", "EE=35", "--input", "NFE=700",
		"--as-fed", "--dm-pct", "88", "--output", "json",
	})
	require.NoError(t, cmd.Execute())

	var result energy.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "as-fed", result.Basis)
	// 3559 kcal/kg DM at 88% DM, rounded to the default 0 decimals.
	assert.InDelta(t, 3132.0, result.Value, 0.001)
}

func TestEnergyComputeCmdAsFedFromDMInput(t *testing.T) {
	// Without --dm-pct, a DM composition input supplies the conversion factor.
	cmd := NewEnergyComputeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--species", "poultry", "--family", "corn",
		"--input", "CP=180", "--input", "EE=35", "--input", "NFE=700",
		"--input", "DM=88",
		"--as-fed", "--output", "json",
	})
	require.NoError(t, cmd.Execute())

	var result energy.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "as-fed", result.Basis)
	assert.InDelta(t, 3132.0, result.Value, 0.001)
}

func TestEnergyComputeCmdAsFedWithoutDM(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--species", "poultry", "--family", "corn",
		"--input", "CP=180", "--input", "EE=35", "--input", "NFE=700",
		"--as-fed",
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, energy.ErrMissingDryMatterPercent)
}

func TestEnergyComputeCmdUnknownMethod(t *testing.T) {
	cmd := NewEnergyComputeCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--species", "poultry", "--input", "CP=180", "--method", "not_an_equation",
	})
	require.Error(t, cmd.Execute())
}
