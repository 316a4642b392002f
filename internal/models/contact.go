package models

// MatchMethod tags how a roster row was joined to an entity.
type MatchMethod string

// Match methods.
const (
	MatchedByUEI  MatchMethod = "uei"
	MatchedByCAGE MatchMethod = "cage"
	Unmatched     MatchMethod = "unmatched"
)

// CuratedContact is a roster entry augmented with its matched entity fields.
// Entity is keyed by the entity workbook's column labels and is nil when unmatched.
type CuratedContact struct {
	Roster RosterEntry
	Notice *NoticeRecord
	Entity map[string]string
	Method MatchMethod
}

// Matched reports whether entity fields were attached.
func (c *CuratedContact) Matched() bool {
	return c.Method != Unmatched
}
