package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uywa/nutrienergia/internal/requirement"
)

const requirementTable = `nutriente,valor_por_kg,unidad,escalable,min_absoluto,max,referencia_AME_kcalkg,especie,etapa
Lisina,11.0,g/kg,true,9.0,14.0,3000,broiler,engorde
Calcio,9.0,g/kg,false,8.5,,3000,broiler,engorde
Fósforo,4.5,g/kg,true,,,3000,broiler,engorde
Sodio,1.6,g/kg,true,,,,broiler,inicio
`

func writeRequirementTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.csv")
	require.NoError(t, os.WriteFile(path, []byte(requirementTable), 0600))
	return path
}

func TestRequirementsScaleCmdJSON(t *testing.T) {
	path := writeRequirementTable(t)

	cmd := NewRequirementsScaleCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--table", path, "--species", "broiler", "--stage", "engorde",
		"--target", "3300", "--output", "json",
	})
	require.NoError(t, cmd.Execute())

	var rows []requirement.Row
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 3)

	t.Run("scalable row rescales by the energy ratio", func(t *testing.T) {
		assert.Equal(t, "Lisina", rows[0].Nutrient)
		assert.InDelta(t, 11.0*3300/3000, rows[0].ValuePerKg, 1e-9)
	})

	t.Run("non-scalable row keeps its value", func(t *testing.T) {
		assert.Equal(t, "Calcio", rows[1].Nutrient)
		assert.Equal(t, 9.0, rows[1].ValuePerKg)
	})

	t.Run("unbounded scalable row rescales freely", func(t *testing.T) {
		assert.InDelta(t, 4.5*3300/3000, rows[2].ValuePerKg, 1e-9)
	})
}

func TestRequirementsScaleCmdCSVOut(t *testing.T) {
	path := writeRequirementTable(t)
	outPath := filepath.Join(t.TempDir(), "scaled.csv")

	cmd := NewRequirementsScaleCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--table", path, "--target", "3000", "--output", "csv",
		"--decimals", "2", "--out", outPath,
	})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	// At the reference energy the table round-trips unchanged.
	assert.Contains(t, string(data), "Lisina,11.00")
}

func TestRequirementsScaleCmdTable(t *testing.T) {
	path := writeRequirementTable(t)

	cmd := NewRequirementsScaleCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--table", path, "--target", "3300", "--output", "table"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Lisina")
	assert.Contains(t, out.String(), "NUTRIENT")
}

func TestRequirementsScaleCmdNoMatch(t *testing.T) {
	path := writeRequirementTable(t)

	cmd := NewRequirementsScaleCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--table", path, "--species", "swine", "--target", "3300"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No requirement rows match")
}

func TestRequirementsScaleCmdRejectsNonPositiveTarget(t *testing.T) {
	cmd := NewRequirementsScaleCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--table", "ignored.csv", "--target", "0"})
	require.Error(t, cmd.Execute())
}
