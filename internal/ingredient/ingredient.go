// Package ingredient maps ingredient names to equation families and supplies
// default compositions when no laboratory data is available. Uploaded maps
// are cached by content hash with explicit invalidation, so two callers with
// the same table share one parse and a new upload can never be served stale.
package ingredient

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/uywa/nutrienergia/internal/composition"
	"github.com/uywa/nutrienergia/internal/equation"
)

// Map associates folded ingredient names with equation families.
type Map struct {
	families map[string]equation.Family
}

// foldName lowercases and strips diacritics so "Maíz", "maiz" and "MAIZ"
// address the same entry.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		// Fold failures only happen on malformed UTF-8; fall back to the raw
		// name rather than dropping the entry.
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ParseMap reads an ingredient→family table (CSV, columns ingrediente and
// familia) into a Map.
func ParseMap(r io.Reader) (*Map, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading ingredient map header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range []string{"ingrediente", "familia"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("ingredient map missing column %q", col)
		}
	}

	m := &Map{families: make(map[string]equation.Family)}
	for line := 2; ; line++ {
		rec, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading ingredient map line %d: %w", line, readErr)
		}
		name := foldName(rec[idx["ingrediente"]])
		family := equation.Family(strings.TrimSpace(rec[idx["familia"]]))
		if name == "" || family == "" {
			continue
		}
		m.families[name] = family
	}
	return m, nil
}

// Family returns the family for an ingredient name, folding case and
// accents. Unknown ingredients map to the generic family.
func (m *Map) Family(name string) (equation.Family, bool) {
	family, ok := m.families[foldName(name)]
	if !ok {
		return equation.FamilyGeneric, false
	}
	return family, true
}

// Len returns the number of mapped ingredients.
func (m *Map) Len() int {
	return len(m.families)
}

// DefaultComposition returns the generated default composition used when no
// laboratory data is supplied: a generic cereal-like profile in g/kg DM
// (DM itself in percent, GE in kcal/kg DM).
func DefaultComposition() *composition.Record {
	rec := composition.NewRecord()
	defaults := map[composition.Var]float64{
		composition.DM:     88,
		composition.Ash:    50,
		composition.CP:     140,
		composition.EE:     40,
		composition.CF:     50,
		composition.NDF:    100,
		composition.ADF:    40,
		composition.Starch: 600,
		composition.Sugars: 40,
		composition.GE:     4000,
	}
	for v, value := range defaults {
		// Values are static and within bounds; Set cannot fail here.
		_ = rec.Set(v, value)
	}
	return rec
}
