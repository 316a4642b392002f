package normalizer

import (
	"strings"
	"unicode"
)

// emailRejectFragments mark addresses whose local or domain part is malformed.
var emailRejectFragments = []string{"@.", "..", "@-", "-@"}

// Validator accepts or rejects candidate phones and emails.
type Validator struct {
	areaCodes AreaCodes
}

// NewValidator creates a validator checking phones against codes.
func NewValidator(codes AreaCodes) *Validator {
	return &Validator{areaCodes: codes}
}

// ValidPhone reports whether s has exactly ten digits starting with a known area code.
func (v *Validator) ValidPhone(s string) bool {
	digits := digitsOnly(s)
	if len(digits) != 10 {
		return false
	}

	return v.areaCodes.Contains(digits[:3])
}

// ValidEmail reports whether a lower-cased address has none of the rejected fragments.
func (v *Validator) ValidEmail(s string) bool {
	for _, frag := range emailRejectFragments {
		if strings.Contains(s, frag) {
			return false
		}
	}

	return true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}
