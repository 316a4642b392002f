package normalizer

import (
	"strings"

	"samivl/internal/models"
	"samivl/pkg/utils"
)

// Transformer turns one extract row into an EntityRecord.
type Transformer struct {
	layout    Layout
	indices   []int
	extractor *Extractor
}

// NewTransformer creates a transformer for layout.
func NewTransformer(layout Layout, extractor *Extractor) *Transformer {
	return &Transformer{
		layout:    layout,
		indices:   layout.Indices(),
		extractor: extractor,
	}
}

// Transform maps row through the layout. Columns past the end of row read
// as empty. Contacts are extracted from every cell, mapped or not.
func (t *Transformer) Transform(row []string) *models.EntityRecord {
	rec := &models.EntityRecord{}

	var poc pocParts

	for _, idx := range t.indices {
		name := t.layout.Fields[idx]
		value := utils.CellAt(row, idx)

		if slot, ok := pocSlots[name]; ok {
			*slot(&poc) = value
			continue
		}

		if set := fieldSetters[name]; set != nil {
			set(rec, value)
		}
	}

	if rec.BusinessTypeCodes != "" {
		rec.BusinessTypeCodes = strings.ReplaceAll(rec.BusinessTypeCodes, "~", ", ")
	}

	rec.GovtPOCFullName = fullName(poc.govt)
	rec.AltPOCFullName = fullName(poc.alt)

	rec.SetContacts(t.extractor.Emails(row), t.extractor.Phones(row))

	return rec
}

// Short reports whether row is narrower than the layout.
func (t *Transformer) Short(row []string) bool {
	return len(row) < t.layout.Width()
}

func fullName(parts [3]string) string {
	return utils.JoinNonEmpty(parts[:]...)
}
