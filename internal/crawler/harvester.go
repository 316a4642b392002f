package crawler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"samivl/internal/artifact"
	"samivl/internal/logger"
	"samivl/internal/manifest"
	"samivl/internal/metrics"
	"samivl/internal/models"
	"samivl/internal/tabular"
)

// CSV headers of the harvest tables.
var (
	NoticeHeader = []string{"noticeId", "title", "postedDate", "ptype", "ivl_len"}
	RosterHeader = []string{"noticeId", "ueiSAM", "cage", "vendorName"}
)

// OpportunityAPI is the remote surface the harvester needs.
type OpportunityAPI interface {
	SearchNotices(ctx context.Context, p SearchParams) ([]models.NoticeRecord, error)
	FetchRoster(ctx context.Context, noticeID string) ([]models.RosterEntry, error)
}

// HarvestOptions configures a run.
type HarvestOptions struct {
	Root         string
	PType        string
	OrgCode      string
	LookbackDays int
	PageSize     int
	RosterDelay  time.Duration
}

// Harvester pages through notices and records each notice's roster.
type Harvester struct {
	api       OpportunityAPI
	opts      HarvestOptions
	logger    *logger.Logger
	metrics   *metrics.Registry
	publisher manifest.Publisher
	now       func() time.Time
}

// HarvesterOption customizes a Harvester.
type HarvesterOption func(*Harvester)

// WithHarvestLogger sets the logger.
func WithHarvestLogger(l *logger.Logger) HarvesterOption {
	return func(h *Harvester) { h.logger = l }
}

// WithMetrics records counters into r.
func WithMetrics(r *metrics.Registry) HarvesterOption {
	return func(h *Harvester) { h.metrics = r }
}

// WithPublisher sends the summary to p after it is written to disk.
func WithPublisher(p manifest.Publisher) HarvesterOption {
	return func(h *Harvester) { h.publisher = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HarvesterOption {
	return func(h *Harvester) { h.now = now }
}

// NewHarvester creates a harvester.
func NewHarvester(api OpportunityAPI, opts HarvestOptions, options ...HarvesterOption) *Harvester {
	h := &Harvester{
		api:    api,
		opts:   opts,
		logger: logger.Discard(),
		now:    time.Now,
	}

	for _, o := range options {
		o(h)
	}

	return h
}

// Window returns the posted-date range ending on the day of now.
func Window(now time.Time, lookbackDays int) (time.Time, time.Time) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return to.AddDate(0, 0, -lookbackDays), to
}

// run holds the open sinks of one harvest.
type run struct {
	summary *models.RunSummary
	notices *tabular.AppendWriter
	roster  *tabular.AppendWriter
	params  SearchParams
}

// Run performs one harvest. Remote failures end the run in a terminal
// state recorded in the summary; the error return is reserved for local
// failures such as unwritable output.
func (h *Harvester) Run(ctx context.Context) (*models.RunSummary, error) {
	start := h.now()
	from, to := Window(start, h.opts.LookbackDays)
	runDir := artifact.HarvestDir(h.opts.Root, start, h.opts.PType)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	summary := &models.RunSummary{
		RunUTC:       start.UTC().Truncate(time.Second),
		RunID:        uuid.NewString(),
		RunDir:       runDir,
		PostedFrom:   from.Format(DateLayout),
		PostedTo:     to.Format(DateLayout),
		PType:        h.opts.PType,
		OrgCode:      h.opts.OrgCode,
		LookbackDays: h.opts.LookbackDays,
	}

	log := h.logger.With("run_id", summary.RunID)
	log.Info("begin harvest", "dir", runDir, "from", summary.PostedFrom, "to", summary.PostedTo, "ptype", h.opts.PType)

	notices, err := tabular.OpenAppend(filepath.Join(runDir, artifact.NoticesFile), NoticeHeader)
	if err != nil {
		return nil, err
	}

	roster, err := tabular.OpenAppend(filepath.Join(runDir, artifact.RosterFile), RosterHeader)
	if err != nil {
		notices.Close()
		return nil, err
	}

	r := &run{
		summary: summary,
		notices: notices,
		roster:  roster,
		params: SearchParams{
			Limit:      h.opts.PageSize,
			PostedFrom: from,
			PostedTo:   to,
			PType:      h.opts.PType,
			OrgCode:    h.opts.OrgCode,
		},
	}

	runErr := h.harvest(ctx, r, log)
	if runErr != nil {
		summary.State = models.StateSearchFailed
		summary.Error = runErr.Error()
	}

	for _, w := range []*tabular.AppendWriter{notices, roster} {
		if err := w.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}

	h.metrics.SetQuotaExhausted(summary.QuotaHit)

	if err := (manifest.FilesystemPublisher{}).Publish(ctx, summary); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to write summary: %w", err)
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, summary); err != nil {
			log.Warn("summary publish failed", "error", err)
		}
	}

	log.Info("harvest finished",
		"state", summary.State,
		"pages", summary.Pages,
		"api_calls", summary.APICalls,
		"notices", summary.Notices,
		"ivl_rows", summary.RosterRows,
		"quota_hit", summary.QuotaHit,
	)

	return summary, runErr
}

// harvest drives the page/roster state machine until a terminal state.
func (h *Harvester) harvest(ctx context.Context, r *run, log *logger.Logger) error {
	s := r.summary

	for {
		s.State = models.StateFetchingPage
		s.Pages++
		s.APICalls++
		h.metrics.IncAPICalls()

		page, err := h.api.SearchNotices(ctx, r.params)
		switch {
		case errors.Is(err, ErrQuotaExhausted):
			log.Warn("daily quota hit during search, stopping", "page", s.Pages)
			s.State = models.StateQuotaExhausted
			s.QuotaHit = true

			return nil
		case err != nil:
			log.Error("search failed, aborting", "page", s.Pages, "error", err)
			s.State = models.StateSearchFailed
			s.Error = err.Error()

			return nil
		}

		if len(page) == 0 {
			s.State = models.StateDone
			return nil
		}

		log.Debug("fetched page", "page", s.Pages, "offset", r.params.Offset, "notices", len(page))

		for _, notice := range page {
			s.State = models.StateFetchingRoster

			if err := ctx.Err(); err != nil {
				s.State = models.StateSearchFailed
				s.Error = err.Error()

				return nil
			}

			quota, err := h.recordNotice(ctx, r, notice, log)
			if err != nil {
				return err
			}

			if quota {
				log.Warn("daily quota hit during roster fetch, stopping", "notice", notice.NoticeID)
				s.State = models.StateQuotaExhausted
				s.QuotaHit = true

				return nil
			}

			if err := h.pause(ctx); err != nil {
				s.State = models.StateSearchFailed
				s.Error = err.Error()

				return nil
			}
		}

		r.params.Offset += r.params.Limit
	}
}

// recordNotice fetches one roster and appends the notice and its vendors.
// The notice row is written even when the roster fetch hits the quota.
func (h *Harvester) recordNotice(ctx context.Context, r *run, notice models.NoticeRecord, log *logger.Logger) (bool, error) {
	r.summary.APICalls++
	h.metrics.IncAPICalls()

	vendors, err := h.api.FetchRoster(ctx, notice.NoticeID)

	quota := false

	switch {
	case err == nil:
	case errors.Is(err, ErrQuotaExhausted):
		quota = true
		vendors = nil
	case errors.Is(err, ErrNoRoster):
		log.Debug("no roster", "notice", notice.NoticeID, "reason", err)
		vendors = nil
	default:
		log.Warn("roster fetch failed, recording none", "notice", notice.NoticeID, "error", err)
		vendors = nil
	}

	for _, v := range vendors {
		if err := r.roster.Write([]string{notice.NoticeID, v.UEI, v.CAGE, v.VendorName}); err != nil {
			return quota, err
		}
	}

	notice.PType = r.params.PType
	notice.RosterSize = len(vendors)

	row := []string{notice.NoticeID, notice.Title, notice.PostedDate, notice.PType, strconv.Itoa(notice.RosterSize)}
	if err := r.notices.Write(row); err != nil {
		return quota, err
	}

	if err := r.roster.Flush(); err != nil {
		return quota, err
	}

	if err := r.notices.Flush(); err != nil {
		return quota, err
	}

	r.summary.Notices = r.notices.Rows()
	r.summary.RosterRows = r.roster.Rows()
	h.metrics.IncNotices()
	h.metrics.AddRosterRows(len(vendors))

	return quota, nil
}

// pause waits RosterDelay after a roster fetch, so consecutive fetches are
// separated by at least the delay however long each one took.
func (h *Harvester) pause(ctx context.Context) error {
	if h.opts.RosterDelay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(h.opts.RosterDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
