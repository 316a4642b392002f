package normalizer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultLayoutVersion names the column layout shipped with the normalizer.
const DefaultLayoutVersion = "SAM_PUBLIC_MONTHLY_V2"

// Layout errors.
var (
	ErrLayoutMissingField = errors.New("layout is missing a required field")
	ErrLayoutUnknownField = errors.New("layout names an unknown field")
	ErrLayoutBadIndex     = errors.New("layout has a negative column index")
)

// requiredFields must be mapped by every layout.
var requiredFields = []string{FieldUEI, FieldCAGECode, FieldLegalName, FieldSAMStatus}

// Layout maps extract column positions to field names.
type Layout struct {
	Version string         `yaml:"version"`
	Fields  map[int]string `yaml:"fields"`
}

// DefaultLayout returns the monthly V2 public extract layout.
func DefaultLayout() Layout {
	return Layout{
		Version: DefaultLayoutVersion,
		Fields: map[int]string{
			0:   FieldUEI,
			3:   FieldCAGECode,
			5:   FieldSAMStatus,
			6:   FieldPurposeOfReg,
			11:  FieldLegalName,
			12:  FieldDBAName,
			15:  FieldStreetAddress,
			17:  FieldCity,
			18:  FieldState,
			19:  FieldZIPCode,
			21:  FieldCountry,
			22:  FieldCongressionalDistrict,
			26:  FieldWebsiteOrEmail,
			27:  FieldEntityStructure,
			30:  FieldBusinessTypeCounter,
			31:  FieldBusinessTypeCodes,
			32:  FieldPrimaryNAICS,
			33:  FieldNAICSCodeCounter,
			34:  FieldNAICSCodeString,
			37:  FieldCreditCardUsage,
			39:  FieldMailingAddress,
			41:  FieldMailingCity,
			42:  FieldMailingZIP,
			45:  FieldMailingState,
			46:  FieldGovtPOCFirstName,
			47:  FieldGovtPOCMiddle,
			48:  FieldGovtPOCLastName,
			57:  FieldAltPOCFirstName,
			58:  FieldAltPOCMiddle,
			59:  FieldAltPOCLastName,
			112: FieldNAICSExceptionCounter,
			113: FieldNAICSExceptionString,
		},
	}
}

// LoadLayout reads a layout from a YAML file and validates it.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout YAML: %w", err)
	}

	if err := l.Validate(); err != nil {
		return Layout{}, err
	}

	return l, nil
}

// Validate checks that every field name is known and the required fields are mapped.
func (l Layout) Validate() error {
	seen := make(map[string]bool, len(l.Fields))

	for idx, name := range l.Fields {
		if idx < 0 {
			return fmt.Errorf("%w: %d", ErrLayoutBadIndex, idx)
		}

		if _, ok := fieldSetters[name]; !ok {
			return fmt.Errorf("%w: %s at column %d", ErrLayoutUnknownField, name, idx)
		}

		seen[name] = true
	}

	for _, name := range requiredFields {
		if !seen[name] {
			return fmt.Errorf("%w: %s", ErrLayoutMissingField, name)
		}
	}

	return nil
}

// Indices returns the mapped column positions in ascending order.
func (l Layout) Indices() []int {
	out := make([]int, 0, len(l.Fields))
	for idx := range l.Fields {
		out = append(out, idx)
	}

	sort.Ints(out)

	return out
}

// Width is one past the highest mapped column index.
func (l Layout) Width() int {
	width := 0
	for idx := range l.Fields {
		if idx+1 > width {
			width = idx + 1
		}
	}

	return width
}

// Has reports whether name is mapped.
func (l Layout) Has(name string) bool {
	for _, n := range l.Fields {
		if n == name {
			return true
		}
	}

	return false
}
