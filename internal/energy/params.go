package energy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Stage parameter table column names. The table is external reference data;
// column names follow its published shape.
var stageParamColumns = []string{
	"categoria", "a_cat", "b", "s_cat", "TCI_base", "e_P", "e_G", "k_P", "k_G",
}

// LoadStageParams reads a per-stage parameter table (CSV with header) and
// returns one StageParams per row, validated.
func LoadStageParams(r io.Reader) ([]StageParams, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading stage params header: %w", err)
	}
	idx, err := columnIndex(header, stageParamColumns)
	if err != nil {
		return nil, err
	}

	var params []StageParams
	for line := 2; ; line++ {
		rec, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading stage params line %d: %w", line, readErr)
		}

		p := StageParams{Category: strings.TrimSpace(rec[idx["categoria"]])}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"a_cat", &p.A}, {"b", &p.B}, {"s_cat", &p.S}, {"TCI_base", &p.TCIBase},
			{"e_P", &p.EP}, {"e_G", &p.EG}, {"k_P", &p.KP}, {"k_G", &p.KG},
		}
		for _, f := range fields {
			v, parseErr := strconv.ParseFloat(strings.TrimSpace(rec[idx[f.name]]), 64)
			if parseErr != nil {
				return nil, fmt.Errorf("stage params line %d, column %s: %w", line, f.name, parseErr)
			}
			*f.dst = v
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("stage params line %d: %w", line, err)
		}
		params = append(params, p)
	}
	return params, nil
}

// FindStageParams returns the row whose category matches key.
func FindStageParams(params []StageParams, category string) (StageParams, error) {
	for _, p := range params {
		if p.Category == category {
			return p, nil
		}
	}
	return StageParams{}, fmt.Errorf("no stage parameters for category %q", category)
}

// columnIndex maps required column names to their positions in the header.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return idx, nil
}
