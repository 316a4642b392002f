package merger

import (
	"samivl/internal/models"
	"samivl/internal/tabular"
)

// Merged-table columns not present in either input.
const (
	ColTitle      = "title"
	ColPostedDate = "postedDate"
	ColMatch      = "match"
)

// Curated workbook labels used for defaults and sorting.
const (
	LabelHasEmail   = "Has Email"
	LabelVendorName = "Vendor Name"
)

type column struct {
	source string
	label  string
}

// curatedColumns is the ordered source-to-label map of the curated workbook.
var curatedColumns = []column{
	{RosterNoticeID, "Notice ID"},
	{ColTitle, "Notice Title"},
	{ColPostedDate, "Notice Posted"},
	{RosterVendor, LabelVendorName},
	{RosterUEI, "UEI"},
	{RosterCAGE, "CAGE"},
	{"Business Name", "Legal Business Name"},
	{"Status", "Entity Status"},
	{"Has Email", LabelHasEmail},
	{"Email Addresses", "Email Addresses"},
	{"Has Phone", "Has Phone"},
	{"Phone Numbers", "Phone Numbers"},
	{"Government POC Name", "Gov POC Name"},
	{"Alternate POC Name", "Alt POC Name"},
	{"STREET_ADDRESS", "Street"},
	{"CITY", "City"},
	{"STATE", "State"},
	{"ZIP", "ZIP"},
	{"PRIMARY_NAICS", "Primary NAICS"},
	{"BUSINESS_TYPE_CODES", "Business Type Codes"},
	{"ENTITY_STRUCTURE", "Entity Structure"},
	{ColMatch, "Match Method"},
}

// Curate builds the curated table. Notice columns appear only when withNotices
// is set; entity columns appear when the entity workbook has them.
func Curate(contacts []models.CuratedContact, entityColumns []string, withNotices bool) *tabular.Table {
	header := []string{RosterNoticeID, RosterUEI, RosterCAGE, RosterVendor}
	if withNotices {
		header = append(header, ColTitle, ColPostedDate)
	}

	header = append(header, entityColumns...)
	header = append(header, ColMatch)

	merged := tabular.NewTable(header)

	for _, c := range contacts {
		row := make([]string, 0, len(header))
		row = append(row, c.Roster.NoticeID, c.Roster.UEI, c.Roster.CAGE, c.Roster.VendorName)

		if withNotices {
			if c.Notice != nil {
				row = append(row, c.Notice.Title, c.Notice.PostedDate)
			} else {
				row = append(row, "", "")
			}
		}

		for _, col := range entityColumns {
			row = append(row, c.Entity[col])
		}

		merged.Append(append(row, string(c.Method)))
	}

	sources := make([]string, len(curatedColumns))
	labels := make(map[string]string, len(curatedColumns))

	for i, col := range curatedColumns {
		sources[i] = col.source
		labels[col.source] = col.label
	}

	out := merged.Project(sources)
	out.Rename(labels)
	out.FillDefault(LabelHasEmail, models.FlagNo)
	out.StableSort(
		tabular.SortKey{Column: LabelHasEmail, Desc: true},
		tabular.SortKey{Column: LabelVendorName, BlankLast: true},
	)

	return out
}
