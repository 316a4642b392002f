// Package merger joins a harvest roster with the entity workbook and writes
// the curated contact workbook.
package merger

import (
	"strings"

	"samivl/internal/models"
	"samivl/internal/tabular"
)

// Entity workbook key columns.
const (
	EntityUEI  = "UEI"
	EntityCAGE = "CAGE"
)

// NormalizeUEI trims a UEI.
func NormalizeUEI(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeCAGE trims and upper-cases a CAGE code.
func NormalizeCAGE(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IndexStats describes an EntityIndex.
type IndexStats struct {
	Rows          int
	UniqueUEI     int
	UniqueCAGE    int
	DuplicateUEI  int
	DuplicateCAGE int
}

// EntityIndex looks entity rows up by UEI and by CAGE. For duplicate keys
// the first row wins. Blank keys are never indexed.
type EntityIndex struct {
	table  *tabular.Table
	byUEI  map[string]int
	byCAGE map[string]int
	Stats  IndexStats
}

// BuildEntityIndex normalizes the key columns of t in place and indexes it.
func BuildEntityIndex(t *tabular.Table) (*EntityIndex, error) {
	if err := t.Require(EntityUEI, EntityCAGE); err != nil {
		return nil, err
	}

	t.Map(EntityUEI, NormalizeUEI)
	t.Map(EntityCAGE, NormalizeCAGE)

	ix := &EntityIndex{
		table:  t,
		byUEI:  make(map[string]int, t.Len()),
		byCAGE: make(map[string]int, t.Len()),
	}

	for i := range t.Rows {
		if uei := t.Value(i, EntityUEI); uei != "" {
			if _, exists := ix.byUEI[uei]; exists {
				ix.Stats.DuplicateUEI++
			} else {
				ix.byUEI[uei] = i
			}
		}

		if cage := t.Value(i, EntityCAGE); cage != "" {
			if _, exists := ix.byCAGE[cage]; exists {
				ix.Stats.DuplicateCAGE++
			} else {
				ix.byCAGE[cage] = i
			}
		}
	}

	ix.Stats.Rows = t.Len()
	ix.Stats.UniqueUEI = len(ix.byUEI)
	ix.Stats.UniqueCAGE = len(ix.byCAGE)

	return ix, nil
}

// Columns returns the entity column names.
func (ix *EntityIndex) Columns() []string {
	return ix.table.Header
}

// Lookup finds an entity by normalized UEI, falling back to normalized CAGE.
// A UEI miss is always followed by a CAGE attempt whose result fully
// replaces it.
func (ix *EntityIndex) Lookup(uei, cage string) (map[string]string, models.MatchMethod) {
	if uei = NormalizeUEI(uei); uei != "" {
		if i, ok := ix.byUEI[uei]; ok {
			return ix.table.Record(i), models.MatchedByUEI
		}
	}

	if cage = NormalizeCAGE(cage); cage != "" {
		if i, ok := ix.byCAGE[cage]; ok {
			return ix.table.Record(i), models.MatchedByCAGE
		}
	}

	return nil, models.Unmatched
}
