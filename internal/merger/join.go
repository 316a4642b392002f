package merger

import (
	"samivl/internal/models"
	"samivl/internal/tabular"
)

// Roster table columns.
const (
	RosterNoticeID = "noticeId"
	RosterUEI      = "ueiSAM"
	RosterCAGE     = "cage"
	RosterVendor   = "vendorName"
)

// rosterAliases are accepted header spellings for the key columns.
var rosterAliases = map[string]string{
	"uei":        RosterUEI,
	"cageNumber": RosterCAGE,
}

// JoinStats counts rows by match method.
type JoinStats struct {
	Total     int
	ByUEI     int
	ByCAGE    int
	Unmatched int
}

// Matched is the number of rows carrying entity data.
func (s JoinStats) Matched() int {
	return s.ByUEI + s.ByCAGE
}

// RosterEntries converts a roster table into entries, renaming header
// aliases and normalizing keys. It fails when a key column is missing.
func RosterEntries(t *tabular.Table) ([]models.RosterEntry, error) {
	for from, to := range rosterAliases {
		t.RenameAlias(from, to)
	}

	if err := t.Require(RosterUEI, RosterCAGE); err != nil {
		return nil, err
	}

	entries := make([]models.RosterEntry, t.Len())
	for i := range t.Rows {
		entries[i] = models.RosterEntry{
			NoticeID:   t.Value(i, RosterNoticeID),
			UEI:        NormalizeUEI(t.Value(i, RosterUEI)),
			CAGE:       NormalizeCAGE(t.Value(i, RosterCAGE)),
			VendorName: t.Value(i, RosterVendor),
		}
	}

	return entries, nil
}

// Join attaches entity data to every roster entry: UEI first, then CAGE.
// Every entry appears exactly once in the result, in input order.
func Join(roster []models.RosterEntry, ix *EntityIndex) ([]models.CuratedContact, JoinStats) {
	out := make([]models.CuratedContact, len(roster))
	stats := JoinStats{Total: len(roster)}

	for i, entry := range roster {
		entity, method := ix.Lookup(entry.UEI, entry.CAGE)

		switch method {
		case models.MatchedByUEI:
			stats.ByUEI++
		case models.MatchedByCAGE:
			stats.ByCAGE++
		default:
			stats.Unmatched++
		}

		out[i] = models.CuratedContact{
			Roster: entry,
			Entity: entity,
			Method: method,
		}
	}

	return out, stats
}

// NoticeIndex maps notice ids to their first record in all_notices.csv.
type NoticeIndex map[string]*models.NoticeRecord

// BuildNoticeIndex indexes a notices table.
func BuildNoticeIndex(t *tabular.Table) NoticeIndex {
	ix := make(NoticeIndex, t.Len())

	for i := range t.Rows {
		id := t.Value(i, "noticeId")
		if id == "" {
			continue
		}

		if _, exists := ix[id]; exists {
			continue
		}

		ix[id] = &models.NoticeRecord{
			NoticeID:   id,
			Title:      t.Value(i, "title"),
			PostedDate: t.Value(i, "postedDate"),
			PType:      t.Value(i, "ptype"),
		}
	}

	return ix
}

// Enrich attaches notice records to contacts in place.
func Enrich(contacts []models.CuratedContact, notices NoticeIndex) {
	for i := range contacts {
		contacts[i].Notice = notices[contacts[i].Roster.NoticeID]
	}
}
