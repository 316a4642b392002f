// Package models defines data structures for the normalizer, harvester and merger.
package models

import "strings"

// Registration status labels.
const (
	StatusActive  = "Active"
	StatusExpired = "Expired"
)

// Contact presence flags.
const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

// ListSeparator joins extracted emails and phones in output cells.
const ListSeparator = "; "

// statusLabels maps single-letter SAM registration codes to display labels.
var statusLabels = map[string]string{
	"A": StatusActive,
	"E": StatusExpired,
}

// StatusLabel maps a registration code to its label. Unknown codes pass through.
func StatusLabel(code string) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}

	return code
}

// EntityRecord represents one row of the SAM entity-registration extract.
type EntityRecord struct {
	UEI                   string `json:"uei"`
	CAGE                  string `json:"cage"`
	SAMStatus             string `json:"samStatus"`
	PurposeOfReg          string `json:"purposeOfReg"`
	LegalName             string `json:"legalName"`
	DBAName               string `json:"dbaName"`
	StreetAddress         string `json:"streetAddress"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZIPCode               string `json:"zipCode"`
	Country               string `json:"country"`
	CongressionalDistrict string `json:"congressionalDistrict"`
	WebsiteOrEmail        string `json:"websiteOrEmail"`
	EntityStructure       string `json:"entityStructure"`
	BusinessTypeCounter   string `json:"businessTypeCounter"`
	BusinessTypeCodes     string `json:"businessTypeCodes"`
	PrimaryNAICS          string `json:"primaryNaics"`
	NAICSCodeCounter      string `json:"naicsCodeCounter"`
	NAICSCodeString       string `json:"naicsCodeString"`
	NAICSExceptionCounter string `json:"naicsExceptionCounter"`
	NAICSExceptionString  string `json:"naicsExceptionString"`
	CreditCardUsage       string `json:"creditCardUsage"`
	MailingAddress        string `json:"mailingAddress"`
	MailingCity           string `json:"mailingCity"`
	MailingZIP            string `json:"mailingZip"`
	MailingState          string `json:"mailingState"`
	GovtPOCFullName       string `json:"govtPocFullName"`
	AltPOCFullName        string `json:"altPocFullName"`

	emails []string
	phones []string
}

// SetContacts stores the deduplicated email and phone lists.
// Counts and presence flags are always derived from these lists.
func (e *EntityRecord) SetContacts(emails, phones []string) {
	e.emails = append([]string(nil), emails...)
	e.phones = append([]string(nil), phones...)
}

// Emails returns a copy of the extracted email addresses.
func (e *EntityRecord) Emails() []string {
	return append([]string(nil), e.emails...)
}

// Phones returns a copy of the extracted phone numbers.
func (e *EntityRecord) Phones() []string {
	return append([]string(nil), e.phones...)
}

// Status returns the human-readable registration status.
func (e *EntityRecord) Status() string {
	return StatusLabel(e.SAMStatus)
}

// BusinessName is the name the entity is listed under.
func (e *EntityRecord) BusinessName() string {
	return e.LegalName
}

// EmailCount returns the number of extracted email addresses.
func (e *EntityRecord) EmailCount() int {
	return len(e.emails)
}

// PhoneCount returns the number of extracted phone numbers.
func (e *EntityRecord) PhoneCount() int {
	return len(e.phones)
}

// AllEmails joins the extracted email addresses for a single cell.
func (e *EntityRecord) AllEmails() string {
	return strings.Join(e.emails, ListSeparator)
}

// AllPhones joins the extracted phone numbers for a single cell.
func (e *EntityRecord) AllPhones() string {
	return strings.Join(e.phones, ListSeparator)
}

// HasEmail returns "Yes" when at least one email was extracted.
func (e *EntityRecord) HasEmail() string {
	return flag(len(e.emails) > 0)
}

// HasPhone returns "Yes" when at least one phone was extracted.
func (e *EntityRecord) HasPhone() string {
	return flag(len(e.phones) > 0)
}

func flag(ok bool) string {
	if ok {
		return FlagYes
	}

	return FlagNo
}
