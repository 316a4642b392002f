package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestExtractor() *Extractor {
	return NewExtractor(NewValidator(DefaultAreaCodes()))
}

func TestExtractor_Phones(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		row  []string
		want []string
	}{
		{"unassigned area code", []string{"Call 555-867-5309 now"}, []string{}},
		{"single dashed", []string{"212-555-0198"}, []string{"212-555-0198"}},
		{"duplicate across cells", []string{"212-555-0198", "office 212-555-0198"}, []string{"212-555-0198"}},
		{"duplicate in cell", []string{"212-555-0198 or 212-555-0198"}, []string{"212-555-0198"}},
		{"short cell ignored", []string{"212555019"}, []string{}},
		{"exactly ten characters", []string{"2125550198"}, []string{"2125550198"}},
		{
			"same digits different text kept",
			[]string{"212-555-0198 / 2125550198"},
			[]string{"212-555-0198", "2125550198"},
		},
		{"spaced", []string{"tel 907 555 0100"}, []string{"907 555 0100"}},
		{"eleven digits not a match", []string{"12125550198"}, []string{}},
		{"first seen order", []string{"907-555-0100", "212-555-0198"}, []string{"907-555-0100", "212-555-0198"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Phones(tt.row))
		})
	}
}

func TestExtractor_Emails(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		row  []string
		want []string
	}{
		{"leading dot domain rejected", []string{"bad@.example.com"}, []string{}},
		{"lower-cased", []string{"Good.Person@Example.org"}, []string{"good.person@example.org"}},
		{"second at sign", []string{"a@b@example.com"}, []string{"b@example.com"}},
		{"dedupe case-insensitive", []string{"X@Y.COM", "x@y.com"}, []string{"x@y.com"}},
		{"no at sign", []string{"www.example.com"}, []string{}},
		{"two in one cell", []string{"a@x.gov; b@x.gov"}, []string{"a@x.gov", "b@x.gov"}},
		{"double dot rejected", []string{"first..last@example.com"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Emails(tt.row))
		})
	}
}
