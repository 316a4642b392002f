package models

// Notice classification codes accepted by the opportunities search.
const (
	PTypePresolicitation = "p"
	PTypeSourcesSought   = "r"
)

// NoticeRecord represents one procurement opportunity.
type NoticeRecord struct {
	NoticeID   string `json:"noticeId"`
	Title      string `json:"title"`
	PostedDate string `json:"postedDate"`
	PType      string `json:"ptype"`
	RosterSize int    `json:"ivlLen"`
}

// RosterEntry represents one vendor on a notice's interested vendor list.
type RosterEntry struct {
	NoticeID   string `json:"noticeId"`
	UEI        string `json:"ueiSAM"`
	CAGE       string `json:"cage"`
	VendorName string `json:"vendorName"`
}
