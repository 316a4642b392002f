package normalizer

import (
	"strconv"

	"samivl/internal/models"
)

// Extract field names.
const (
	FieldUEI                   = "UEI"
	FieldCAGECode              = "CAGE_CODE"
	FieldSAMStatus             = "SAM_STATUS"
	FieldPurposeOfReg          = "PURPOSE_OF_REG"
	FieldLegalName             = "LEGAL_NAME"
	FieldDBAName               = "DBA_NAME"
	FieldStreetAddress         = "STREET_ADDRESS"
	FieldCity                  = "CITY"
	FieldState                 = "STATE"
	FieldZIPCode               = "ZIP_CODE"
	FieldCountry               = "COUNTRY"
	FieldCongressionalDistrict = "CONGRESSIONAL_DISTRICT"
	FieldWebsiteOrEmail        = "WEBSITE_OR_EMAIL"
	FieldEntityStructure       = "ENTITY_STRUCTURE"
	FieldBusinessTypeCounter   = "BUSINESS_TYPE_COUNTER"
	FieldBusinessTypeCodes     = "BUSINESS_TYPE_CODES"
	FieldPrimaryNAICS          = "PRIMARY_NAICS"
	FieldNAICSCodeCounter      = "NAICS_CODE_COUNTER"
	FieldNAICSCodeString       = "NAICS_CODE_STRING"
	FieldNAICSExceptionCounter = "NAICS_EXCEPTION_COUNTER"
	FieldNAICSExceptionString  = "NAICS_EXCEPTION_STRING"
	FieldCreditCardUsage       = "CREDIT_CARD_USAGE"
	FieldMailingAddress        = "MAILING_ADDRESS"
	FieldMailingCity           = "MAILING_CITY"
	FieldMailingZIP            = "MAILING_ZIP"
	FieldMailingState          = "MAILING_STATE"
	FieldGovtPOCFirstName      = "GOVT_POC_FIRST_NAME"
	FieldGovtPOCMiddle         = "GOVT_POC_MIDDLE"
	FieldGovtPOCLastName       = "GOVT_POC_LAST_NAME"
	FieldAltPOCFirstName       = "ALT_POC_FIRST_NAME"
	FieldAltPOCMiddle          = "ALT_POC_MIDDLE"
	FieldAltPOCLastName        = "ALT_POC_LAST_NAME"
)

// Derived column names.
const (
	ColBusinessName    = "BUSINESS_NAME"
	ColStatus          = "STATUS"
	ColGovtPOCFullName = "GOVT_POC_FULL_NAME"
	ColAltPOCFullName  = "ALT_POC_FULL_NAME"
	ColAllEmails       = "ALL_EMAILS"
	ColEmailCount      = "EMAIL_COUNT"
	ColHasEmail        = "HAS_EMAIL"
	ColAllPhones       = "ALL_PHONES"
	ColPhoneCount      = "PHONE_COUNT"
	ColHasPhone        = "HAS_PHONE"
)

// Workbook labels after renaming.
const (
	LabelCAGE           = "CAGE"
	LabelBusinessName   = "Business Name"
	LabelStatus         = "Status"
	LabelWebsiteOrEmail = "Website or Email"
	LabelHasEmail       = "Has Email"
	LabelHasPhone       = "Has Phone"
	LabelEmails         = "Email Addresses"
	LabelPhones         = "Phone Numbers"
	LabelGovtPOC        = "Government POC Name"
	LabelAltPOC         = "Alternate POC Name"
	LabelZIP            = "ZIP"
)

// OutputColumns is the workbook column order before renaming.
var OutputColumns = []string{
	FieldUEI, FieldCAGECode, ColBusinessName, ColStatus, FieldWebsiteOrEmail,
	ColHasEmail, ColEmailCount, ColHasPhone, ColPhoneCount, ColAllEmails, ColAllPhones,
	ColGovtPOCFullName, ColAltPOCFullName, FieldStreetAddress, FieldCity, FieldState,
	FieldZIPCode, FieldPrimaryNAICS, FieldBusinessTypeCodes, FieldEntityStructure,
	FieldSAMStatus, FieldPurposeOfReg,
}

// OutputLabels renames output columns for the workbook.
var OutputLabels = map[string]string{
	FieldCAGECode:       LabelCAGE,
	ColBusinessName:     LabelBusinessName,
	ColStatus:           LabelStatus,
	FieldWebsiteOrEmail: LabelWebsiteOrEmail,
	ColHasEmail:         LabelHasEmail,
	ColHasPhone:         LabelHasPhone,
	ColAllEmails:        LabelEmails,
	ColAllPhones:        LabelPhones,
	ColGovtPOCFullName:  LabelGovtPOC,
	ColAltPOCFullName:   LabelAltPOC,
	FieldZIPCode:        LabelZIP,
}

// NumericColumns are written as numbers in the workbook.
var NumericColumns = []string{ColEmailCount, ColPhoneCount}

type setter func(*models.EntityRecord, string)

// pocParts collects the name fragments joined into full POC names.
type pocParts struct {
	govt [3]string
	alt  [3]string
}

var fieldSetters = map[string]setter{
	FieldUEI:                   func(r *models.EntityRecord, v string) { r.UEI = v },
	FieldCAGECode:              func(r *models.EntityRecord, v string) { r.CAGE = v },
	FieldSAMStatus:             func(r *models.EntityRecord, v string) { r.SAMStatus = v },
	FieldPurposeOfReg:          func(r *models.EntityRecord, v string) { r.PurposeOfReg = v },
	FieldLegalName:             func(r *models.EntityRecord, v string) { r.LegalName = v },
	FieldDBAName:               func(r *models.EntityRecord, v string) { r.DBAName = v },
	FieldStreetAddress:         func(r *models.EntityRecord, v string) { r.StreetAddress = v },
	FieldCity:                  func(r *models.EntityRecord, v string) { r.City = v },
	FieldState:                 func(r *models.EntityRecord, v string) { r.State = v },
	FieldZIPCode:               func(r *models.EntityRecord, v string) { r.ZIPCode = v },
	FieldCountry:               func(r *models.EntityRecord, v string) { r.Country = v },
	FieldCongressionalDistrict: func(r *models.EntityRecord, v string) { r.CongressionalDistrict = v },
	FieldWebsiteOrEmail:        func(r *models.EntityRecord, v string) { r.WebsiteOrEmail = v },
	FieldEntityStructure:       func(r *models.EntityRecord, v string) { r.EntityStructure = v },
	FieldBusinessTypeCounter:   func(r *models.EntityRecord, v string) { r.BusinessTypeCounter = v },
	FieldBusinessTypeCodes:     func(r *models.EntityRecord, v string) { r.BusinessTypeCodes = v },
	FieldPrimaryNAICS:          func(r *models.EntityRecord, v string) { r.PrimaryNAICS = v },
	FieldNAICSCodeCounter:      func(r *models.EntityRecord, v string) { r.NAICSCodeCounter = v },
	FieldNAICSCodeString:       func(r *models.EntityRecord, v string) { r.NAICSCodeString = v },
	FieldNAICSExceptionCounter: func(r *models.EntityRecord, v string) { r.NAICSExceptionCounter = v },
	FieldNAICSExceptionString:  func(r *models.EntityRecord, v string) { r.NAICSExceptionString = v },
	FieldCreditCardUsage:       func(r *models.EntityRecord, v string) { r.CreditCardUsage = v },
	FieldMailingAddress:        func(r *models.EntityRecord, v string) { r.MailingAddress = v },
	FieldMailingCity:           func(r *models.EntityRecord, v string) { r.MailingCity = v },
	FieldMailingZIP:            func(r *models.EntityRecord, v string) { r.MailingZIP = v },
	FieldMailingState:          func(r *models.EntityRecord, v string) { r.MailingState = v },
	// POC fragments are collected by the transformer, not stored.
	FieldGovtPOCFirstName: nil,
	FieldGovtPOCMiddle:    nil,
	FieldGovtPOCLastName:  nil,
	FieldAltPOCFirstName:  nil,
	FieldAltPOCMiddle:     nil,
	FieldAltPOCLastName:   nil,
}

var pocSlots = map[string]func(*pocParts) *string{
	FieldGovtPOCFirstName: func(p *pocParts) *string { return &p.govt[0] },
	FieldGovtPOCMiddle:    func(p *pocParts) *string { return &p.govt[1] },
	FieldGovtPOCLastName:  func(p *pocParts) *string { return &p.govt[2] },
	FieldAltPOCFirstName:  func(p *pocParts) *string { return &p.alt[0] },
	FieldAltPOCMiddle:     func(p *pocParts) *string { return &p.alt[1] },
	FieldAltPOCLastName:   func(p *pocParts) *string { return &p.alt[2] },
}

var fieldGetters = map[string]func(*models.EntityRecord) string{
	FieldUEI:                   func(r *models.EntityRecord) string { return r.UEI },
	FieldCAGECode:              func(r *models.EntityRecord) string { return r.CAGE },
	FieldSAMStatus:             func(r *models.EntityRecord) string { return r.SAMStatus },
	FieldPurposeOfReg:          func(r *models.EntityRecord) string { return r.PurposeOfReg },
	FieldLegalName:             func(r *models.EntityRecord) string { return r.LegalName },
	FieldDBAName:               func(r *models.EntityRecord) string { return r.DBAName },
	FieldStreetAddress:         func(r *models.EntityRecord) string { return r.StreetAddress },
	FieldCity:                  func(r *models.EntityRecord) string { return r.City },
	FieldState:                 func(r *models.EntityRecord) string { return r.State },
	FieldZIPCode:               func(r *models.EntityRecord) string { return r.ZIPCode },
	FieldCountry:               func(r *models.EntityRecord) string { return r.Country },
	FieldCongressionalDistrict: func(r *models.EntityRecord) string { return r.CongressionalDistrict },
	FieldWebsiteOrEmail:        func(r *models.EntityRecord) string { return r.WebsiteOrEmail },
	FieldEntityStructure:       func(r *models.EntityRecord) string { return r.EntityStructure },
	FieldBusinessTypeCounter:   func(r *models.EntityRecord) string { return r.BusinessTypeCounter },
	FieldBusinessTypeCodes:     func(r *models.EntityRecord) string { return r.BusinessTypeCodes },
	FieldPrimaryNAICS:          func(r *models.EntityRecord) string { return r.PrimaryNAICS },
	FieldNAICSCodeCounter:      func(r *models.EntityRecord) string { return r.NAICSCodeCounter },
	FieldNAICSCodeString:       func(r *models.EntityRecord) string { return r.NAICSCodeString },
	FieldNAICSExceptionCounter: func(r *models.EntityRecord) string { return r.NAICSExceptionCounter },
	FieldNAICSExceptionString:  func(r *models.EntityRecord) string { return r.NAICSExceptionString },
	FieldCreditCardUsage:       func(r *models.EntityRecord) string { return r.CreditCardUsage },
	FieldMailingAddress:        func(r *models.EntityRecord) string { return r.MailingAddress },
	FieldMailingCity:           func(r *models.EntityRecord) string { return r.MailingCity },
	FieldMailingZIP:            func(r *models.EntityRecord) string { return r.MailingZIP },
	FieldMailingState:          func(r *models.EntityRecord) string { return r.MailingState },
	ColBusinessName:            func(r *models.EntityRecord) string { return r.BusinessName() },
	ColStatus:                  func(r *models.EntityRecord) string { return r.Status() },
	ColGovtPOCFullName:         func(r *models.EntityRecord) string { return r.GovtPOCFullName },
	ColAltPOCFullName:          func(r *models.EntityRecord) string { return r.AltPOCFullName },
	ColAllEmails:               func(r *models.EntityRecord) string { return r.AllEmails() },
	ColEmailCount:              func(r *models.EntityRecord) string { return strconv.Itoa(r.EmailCount()) },
	ColHasEmail:                func(r *models.EntityRecord) string { return r.HasEmail() },
	ColAllPhones:               func(r *models.EntityRecord) string { return r.AllPhones() },
	ColPhoneCount:              func(r *models.EntityRecord) string { return strconv.Itoa(r.PhoneCount()) },
	ColHasPhone:                func(r *models.EntityRecord) string { return r.HasPhone() },
}

// Columns lists every column a layout produces, in layout order followed
// by the derived columns.
func (l Layout) Columns() []string {
	var cols []string

	for _, idx := range l.Indices() {
		name := l.Fields[idx]
		if _, poc := pocSlots[name]; poc {
			continue
		}

		cols = append(cols, name)
	}

	if l.Has(FieldLegalName) {
		cols = append(cols, ColBusinessName)
	}

	if l.Has(FieldSAMStatus) {
		cols = append(cols, ColStatus)
	}

	if l.Has(FieldGovtPOCFirstName) || l.Has(FieldGovtPOCMiddle) || l.Has(FieldGovtPOCLastName) {
		cols = append(cols, ColGovtPOCFullName)
	}

	if l.Has(FieldAltPOCFirstName) || l.Has(FieldAltPOCMiddle) || l.Has(FieldAltPOCLastName) {
		cols = append(cols, ColAltPOCFullName)
	}

	return append(cols, ColAllEmails, ColEmailCount, ColHasEmail, ColAllPhones, ColPhoneCount, ColHasPhone)
}

// Values returns the cells of rec for cols.
func Values(rec *models.EntityRecord, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if get, ok := fieldGetters[c]; ok {
			out[i] = get(rec)
		}
	}

	return out
}
