package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"samivl/pkg/utils"
)

// minPhoneCellLen is the shortest cell scanned for phone numbers, in characters.
const minPhoneCellLen = 10

var (
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),
		regexp.MustCompile(`\b\d{10}\b`),
		regexp.MustCompile(`\b\d{3}\s+\d{3}\s+\d{4}\b`),
	}
	emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
)

// Extractor pulls contact details out of every cell of a row.
type Extractor struct {
	validator *Validator
}

// NewExtractor creates an extractor using v to filter matches.
func NewExtractor(v *Validator) *Extractor {
	return &Extractor{validator: v}
}

// Phones returns the valid phone matches in row, deduplicated by matched
// text in first-seen order.
func (e *Extractor) Phones(row []string) []string {
	var found []string

	for _, cell := range row {
		if utf8.RuneCountInString(cell) < minPhoneCellLen {
			continue
		}

		for _, pat := range phonePatterns {
			for _, m := range pat.FindAllString(cell, -1) {
				if e.validator.ValidPhone(m) {
					found = append(found, m)
				}
			}
		}
	}

	return utils.DedupePreserveOrder(found)
}

// Emails returns the valid, lower-cased email matches in row, deduplicated
// in first-seen order.
func (e *Extractor) Emails(row []string) []string {
	var found []string

	for _, cell := range row {
		if !strings.Contains(cell, "@") {
			continue
		}

		for _, m := range emailPattern.FindAllString(cell, -1) {
			lower := strings.ToLower(m)
			if e.validator.ValidEmail(lower) {
				found = append(found, lower)
			}
		}
	}

	return utils.DedupePreserveOrder(found)
}
