package requirement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reference table column names, in export order. The table is external
// reference data; column names follow its published shape.
var tableColumns = []string{
	"nutriente", "valor_por_kg", "unidad", "escalable",
	"min_absoluto", "max", "referencia_AME_kcalkg", "especie", "etapa",
}

// Load reads a nutrient-requirement reference table (CSV with header).
// Empty numeric cells mean absent. The escalable column accepts "true"
// case-insensitively; any other value (including blanks and stray tokens)
// is treated as false rather than rejected.
func Load(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading requirement table header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range tableColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("requirement table missing column %q", name)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading requirement table line %d: %w", line, readErr)
		}

		value, parseErr := strconv.ParseFloat(strings.TrimSpace(rec[idx["valor_por_kg"]]), 64)
		if parseErr != nil {
			return nil, fmt.Errorf("requirement table line %d, valor_por_kg: %w", line, parseErr)
		}

		row := Row{
			Nutrient:   strings.TrimSpace(rec[idx["nutriente"]]),
			ValuePerKg: value,
			Unit:       strings.TrimSpace(rec[idx["unidad"]]),
			Scalable:   parseScalable(rec[idx["escalable"]]),
			Species:    strings.TrimSpace(rec[idx["especie"]]),
			Stage:      strings.TrimSpace(rec[idx["etapa"]]),
		}

		optional := []struct {
			column string
			dst    **float64
		}{
			{"min_absoluto", &row.MinAbsolute},
			{"max", &row.Max},
			{"referencia_AME_kcalkg", &row.ReferenceEnergy},
		}
		for _, opt := range optional {
			cell := strings.TrimSpace(rec[idx[opt.column]])
			if cell == "" {
				continue
			}
			v, optErr := strconv.ParseFloat(cell, 64)
			if optErr != nil {
				return nil, fmt.Errorf("requirement table line %d, %s: %w", line, opt.column, optErr)
			}
			*opt.dst = &v
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// parseScalable treats anything other than a case-insensitive boolean true
// literal as false.
func parseScalable(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), "true")
}

// Export writes rows as CSV in the same column shape as the input reference
// table, formatting numeric values to decimals.
func Export(w io.Writer, rows []Row, decimals int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableColumns); err != nil {
		return fmt.Errorf("writing requirement table header: %w", err)
	}

	for _, row := range rows {
		rec := []string{
			row.Nutrient,
			formatFloat(row.ValuePerKg, decimals),
			row.Unit,
			strconv.FormatBool(row.Scalable),
			formatOptional(row.MinAbsolute, decimals),
			formatOptional(row.Max, decimals),
			formatOptional(row.ReferenceEnergy, decimals),
			row.Species,
			row.Stage,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing requirement row %s: %w", row.Nutrient, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func formatOptional(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, decimals)
}
