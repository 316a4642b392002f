package models

import "time"

// HarvestState is a terminal or in-flight state of a harvest run.
type HarvestState string

// Harvest states.
const (
	StateFetchingPage   HarvestState = "FETCHING_PAGE"
	StateFetchingRoster HarvestState = "FETCHING_ROSTER"
	StateDone           HarvestState = "DONE"
	StateQuotaExhausted HarvestState = "QUOTA_EXHAUSTED"
	StateSearchFailed   HarvestState = "SEARCH_FAILED"
)

// Terminal reports whether the run has ended.
func (s HarvestState) Terminal() bool {
	return s == StateDone || s == StateQuotaExhausted || s == StateSearchFailed
}

// RunSummary records the identity and outcome of one harvest run.
type RunSummary struct {
	RunUTC       time.Time    `json:"run_utc"`
	RunID        string       `json:"run_id"`
	RunDir       string       `json:"run_dir"`
	PostedFrom   string       `json:"posted_from"`
	PostedTo     string       `json:"posted_to"`
	PType        string       `json:"ptype"`
	OrgCode      string       `json:"org_code"`
	State        HarvestState `json:"state"`
	Error        string       `json:"error,omitempty"`
	LookbackDays int          `json:"lookback_days"`
	Pages        int          `json:"pages"`
	APICalls     int          `json:"api_calls"`
	Notices      int          `json:"notices"`
	RosterRows   int          `json:"ivl_rows"`
	QuotaHit     bool         `json:"quota_hit"`
}
