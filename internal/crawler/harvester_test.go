package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samivl/internal/artifact"
	"samivl/internal/manifest"
	"samivl/internal/metrics"
	"samivl/internal/models"
	"samivl/internal/tabular"
)

// mockAPI is a scripted OpportunityAPI.
type mockAPI struct {
	SearchFunc func(p SearchParams) ([]models.NoticeRecord, error)
	RosterFunc func(call int, noticeID string) ([]models.RosterEntry, error)

	searches    []SearchParams
	rosterCalls int
}

func (m *mockAPI) SearchNotices(_ context.Context, p SearchParams) ([]models.NoticeRecord, error) {
	m.searches = append(m.searches, p)
	return m.SearchFunc(p)
}

func (m *mockAPI) FetchRoster(_ context.Context, noticeID string) ([]models.RosterEntry, error) {
	m.rosterCalls++
	return m.RosterFunc(m.rosterCalls, noticeID)
}

var fixedNow = time.Date(2025, 8, 1, 9, 32, 15, 0, time.UTC)

func notices(ids ...string) []models.NoticeRecord {
	out := make([]models.NoticeRecord, len(ids))
	for i, id := range ids {
		out[i] = models.NoticeRecord{NoticeID: id, Title: "Title " + id, PostedDate: "2025-07-30"}
	}

	return out
}

// pagedSearch serves pages of notices then an empty page.
func pagedSearch(pages ...[]models.NoticeRecord) func(SearchParams) ([]models.NoticeRecord, error) {
	calls := 0

	return func(SearchParams) ([]models.NoticeRecord, error) {
		calls++
		if calls > len(pages) {
			return nil, nil
		}

		return pages[calls-1], nil
	}
}

func twoVendors(_ int, id string) ([]models.RosterEntry, error) {
	return []models.RosterEntry{
		{NoticeID: id, UEI: "U-" + id, CAGE: "C-" + id, VendorName: "Vendor " + id},
		{NoticeID: id, UEI: "", CAGE: "K-" + id, VendorName: "Other " + id},
	}, nil
}

func newTestHarvester(t *testing.T, api OpportunityAPI, opts ...HarvesterOption) (*Harvester, string) {
	t.Helper()

	root := t.TempDir()
	h := NewHarvester(api, HarvestOptions{
		Root:         root,
		PType:        "p",
		OrgCode:      "097",
		LookbackDays: 90,
		PageSize:     2,
	}, append([]HarvesterOption{WithClock(func() time.Time { return fixedNow })}, opts...)...)

	return h, root
}

func readTable(t *testing.T, path string) *tabular.Table {
	t.Helper()

	tbl, err := tabular.ReadCSV(path)
	require.NoError(t, err)

	return tbl
}

func TestHarvester_PaginatesUntilEmptyPage(t *testing.T) {
	api := &mockAPI{
		SearchFunc: pagedSearch(notices("n1", "n2"), notices("n3")),
		RosterFunc: twoVendors,
	}

	reg := metrics.NewRegistry()
	h, root := newTestHarvester(t, api, WithMetrics(reg))

	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.StateDone, summary.State)
	assert.False(t, summary.QuotaHit)
	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 6, summary.APICalls)
	assert.Equal(t, 3, summary.Notices)
	assert.Equal(t, 6, summary.RosterRows)
	assert.Equal(t, "05/03/2025", summary.PostedFrom)
	assert.Equal(t, "08/01/2025", summary.PostedTo)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, api.searches, 3)
	assert.Equal(t, 0, api.searches[0].Offset)
	assert.Equal(t, 2, api.searches[1].Offset)
	assert.Equal(t, 4, api.searches[2].Offset)

	wantDir := filepath.Join(root, "202508", "20250801_093215_p_harvest")
	assert.Equal(t, wantDir, summary.RunDir)

	noticeTable := readTable(t, filepath.Join(wantDir, artifact.NoticesFile))
	assert.Equal(t, NoticeHeader, noticeTable.Header)
	assert.Equal(t, 3, noticeTable.Len())
	assert.Equal(t, "2", noticeTable.Value(0, "ivl_len"))
	assert.Equal(t, "p", noticeTable.Value(0, "ptype"))

	rosterTable := readTable(t, filepath.Join(wantDir, artifact.RosterFile))
	assert.Equal(t, RosterHeader, rosterTable.Header)
	assert.Equal(t, 6, rosterTable.Len())
	assert.Equal(t, "K-n1", rosterTable.Value(1, "cage"))

	written, err := manifest.ReadSummary(wantDir)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, written.RunID)
	assert.Equal(t, models.StateDone, written.State)
}

func TestHarvester_QuotaOnNthRoster(t *testing.T) {
	const n = 3

	api := &mockAPI{
		SearchFunc: pagedSearch(notices("n1", "n2"), notices("n3", "n4"), notices("n5")),
		RosterFunc: func(call int, id string) ([]models.RosterEntry, error) {
			if call == n {
				return nil, ErrQuotaExhausted
			}

			return twoVendors(call, id)
		},
	}

	h, _ := newTestHarvester(t, api)

	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.StateQuotaExhausted, summary.State)
	assert.True(t, summary.QuotaHit)
	assert.Equal(t, n, api.rosterCalls)
	assert.Equal(t, n, summary.Notices)
	assert.Equal(t, 2*(n-1), summary.RosterRows)

	noticeTable := readTable(t, filepath.Join(summary.RunDir, artifact.NoticesFile))
	require.Equal(t, n, noticeTable.Len())
	assert.Equal(t, "n3", noticeTable.Value(n-1, "noticeId"))
	assert.Equal(t, "0", noticeTable.Value(n-1, "ivl_len"))

	for i := 0; i < n-1; i++ {
		assert.Equal(t, "2", noticeTable.Value(i, "ivl_len"))
	}

	written, err := manifest.ReadSummary(summary.RunDir)
	require.NoError(t, err)
	assert.True(t, written.QuotaHit)
}

func TestHarvester_QuotaOnSearch(t *testing.T) {
	api := &mockAPI{
		SearchFunc: func(SearchParams) ([]models.NoticeRecord, error) { return nil, ErrQuotaExhausted },
		RosterFunc: twoVendors,
	}

	h, _ := newTestHarvester(t, api)

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StateQuotaExhausted, summary.State)
	assert.True(t, summary.QuotaHit)
	assert.Equal(t, 0, api.rosterCalls)

	data, err := os.ReadFile(filepath.Join(summary.RunDir, artifact.NoticesFile))
	require.NoError(t, err)
	assert.Equal(t, "noticeId,title,postedDate,ptype,ivl_len\n", string(data))
}

func TestHarvester_SearchFailureKeepsWrittenRows(t *testing.T) {
	calls := 0
	api := &mockAPI{
		SearchFunc: func(SearchParams) ([]models.NoticeRecord, error) {
			calls++
			if calls == 1 {
				return notices("n1", "n2"), nil
			}

			return nil, errors.New("unexpected status code: 500")
		},
		RosterFunc: twoVendors,
	}

	h, _ := newTestHarvester(t, api)

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StateSearchFailed, summary.State)
	assert.Contains(t, summary.Error, "500")
	assert.False(t, summary.QuotaHit)
	assert.Equal(t, 2, summary.Notices)

	assert.Equal(t, 4, readTable(t, filepath.Join(summary.RunDir, artifact.RosterFile)).Len())
}

func TestHarvester_RosterFailuresRecordZero(t *testing.T) {
	api := &mockAPI{
		SearchFunc: pagedSearch(notices("n1", "n2", "n3")),
		RosterFunc: func(call int, id string) ([]models.RosterEntry, error) {
			switch call {
			case 1:
				return nil, ErrNoRoster
			case 2:
				return nil, errors.New("unexpected status code: 502")
			default:
				return twoVendors(call, id)
			}
		},
	}

	h, _ := newTestHarvester(t, api)
	h.opts.PageSize = 3

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, summary.State)
	assert.Equal(t, 3, summary.Notices)
	assert.Equal(t, 2, summary.RosterRows)

	noticeTable := readTable(t, filepath.Join(summary.RunDir, artifact.NoticesFile))
	assert.Equal(t, "0", noticeTable.Value(0, "ivl_len"))
	assert.Equal(t, "0", noticeTable.Value(1, "ivl_len"))
	assert.Equal(t, "2", noticeTable.Value(2, "ivl_len"))
}

func TestHarvester_CancelledContext(t *testing.T) {
	api := &mockAPI{
		SearchFunc: func(SearchParams) ([]models.NoticeRecord, error) { return notices("n1"), nil },
		RosterFunc: twoVendors,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, _ := newTestHarvester(t, api)

	summary, err := h.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StateSearchFailed, summary.State)
	assert.Equal(t, 0, api.rosterCalls)
}

func TestHarvester_RosterDelay(t *testing.T) {
	api := &mockAPI{
		SearchFunc: pagedSearch(notices("n1", "n2", "n3")),
		RosterFunc: twoVendors,
	}

	h := NewHarvester(api, HarvestOptions{
		Root:         t.TempDir(),
		PType:        "r",
		OrgCode:      "097",
		LookbackDays: 1,
		PageSize:     3,
		RosterDelay:  20 * time.Millisecond,
	})

	start := time.Now()
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.True(t, strings.HasSuffix(summary.RunDir, "_r_harvest"))
}

func TestHarvester_RosterDelayFollowsSlowFetch(t *testing.T) {
	const delay = 20 * time.Millisecond

	var starts, ends []time.Time

	api := &mockAPI{
		SearchFunc: pagedSearch(notices("n1", "n2", "n3")),
		RosterFunc: func(call int, id string) ([]models.RosterEntry, error) {
			starts = append(starts, time.Now())
			time.Sleep(2 * delay)
			ends = append(ends, time.Now())

			return twoVendors(call, id)
		},
	}

	h := NewHarvester(api, HarvestOptions{
		Root:         t.TempDir(),
		PType:        "p",
		OrgCode:      "097",
		LookbackDays: 1,
		PageSize:     3,
		RosterDelay:  delay,
	})

	_, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, starts, 3)

	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(ends[i-1]), delay, "gap before fetch %d", i+1)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, *models.RunSummary) error {
	return errors.New("broker down")
}

func TestHarvester_PublisherFailureIsNotFatal(t *testing.T) {
	api := &mockAPI{
		SearchFunc: pagedSearch(),
		RosterFunc: twoVendors,
	}

	h, _ := newTestHarvester(t, api, WithPublisher(failingPublisher{}))

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, summary.State)
}

func TestWindow(t *testing.T) {
	from, to := Window(time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC), 1)
	assert.Equal(t, "02/28/2025", from.Format(DateLayout))
	assert.Equal(t, "03/01/2025", to.Format(DateLayout))
}
