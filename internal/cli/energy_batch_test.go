package cli

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchInput = `ingrediente,familia,CP,EE,NFE,DM
Maíz,corn,180,35,700,88
Trigo,wheat,120,20,750,89
sin datos,corn,180,,,
`

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestEnergyBatchCmd(t *testing.T) {
	path := writeBatchFile(t, batchInput)

	cmd := NewEnergyBatchCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--file", path, "--species", "poultry"})
	require.NoError(t, cmd.Execute())

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t,
		[]string{"ingrediente", "familia", "equation", "output", "value", "unit", "basis", "notes"},
		records[0])

	t.Run("rows keep input order", func(t *testing.T) {
		assert.Equal(t, "Maíz", records[1][0])
		assert.Equal(t, "Trigo", records[2][0])
		assert.Equal(t, "sin datos", records[3][0])
	})

	t.Run("successful rows carry values", func(t *testing.T) {
		assert.Equal(t, "men_corn", records[1][2])
		assert.Equal(t, "3559", records[1][4])
		assert.Equal(t, "men_wheat", records[2][2])
	})

	t.Run("failed row reports error without aborting", func(t *testing.T) {
		assert.Empty(t, records[3][4])
		assert.Contains(t, records[3][7], "ERROR:")
	})

	t.Run("failure warning on stderr", func(t *testing.T) {
		assert.Contains(t, errOut.String(), "1 of 3 samples failed")
	})
}

func TestEnergyBatchCmdAsFed(t *testing.T) {
	path := writeBatchFile(t, "ingrediente,familia,CP,EE,NFE,DM\nMaíz,corn,180,35,700,88\n")

	cmd := NewEnergyBatchCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--file", path, "--species", "poultry", "--as-fed"})
	require.NoError(t, cmd.Execute())

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "as-fed", records[1][6])
	assert.Equal(t, "3132", records[1][4])
}

func TestEnergyBatchCmdWritesFile(t *testing.T) {
	path := writeBatchFile(t, "ingrediente,CP,EE,NFE\nMaíz,180,35,700\n")
	outPath := filepath.Join(t.TempDir(), "results.csv")

	cmd := NewEnergyBatchCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--file", path, "--species", "poultry", "--family", "corn", "--out", outPath})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "men_corn")
}

func TestParseBatchCSVRejectsUnknownColumn(t *testing.T) {
	path := writeBatchFile(t, "ingrediente,Protein\nMaíz,180\n")

	cmd := NewEnergyBatchCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--file", path, "--species", "poultry"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")
}
