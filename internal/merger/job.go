package merger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"samivl/internal/artifact"
	"samivl/internal/logger"
	"samivl/internal/metrics"
	"samivl/internal/models"
	"samivl/internal/tabular"
	"samivl/pkg/digest"
)

// ErrMissingRoster is returned when a harvest directory has no ivl_hits.csv.
var ErrMissingRoster = errors.New("roster file not found")

// Result describes a completed merge.
type Result struct {
	HarvestDir     string
	EntityWorkbook string
	Output         string
	Index          IndexStats
	Stats          JoinStats
	WithNotices    bool
	Table          *tabular.Table
	Digest         string
	Elapsed        time.Duration
}

// Empty reports a run that found no roster rows and wrote nothing.
func (r *Result) Empty() bool {
	return r.Output == ""
}

// Job joins the newest harvest roster with the newest entity workbook.
type Job struct {
	Discoverer artifact.Discoverer
	Logger     *logger.Logger
	Metrics    *metrics.Registry
	// HarvestDir overrides discovery when set.
	HarvestDir string
}

// Run executes the job.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	log := j.Logger
	if log == nil {
		log = logger.Discard()
	}

	start := time.Now()

	harvestDir, err := artifact.ResolveHarvest(j.Discoverer, j.HarvestDir)
	if err != nil {
		return nil, err
	}

	res := &Result{HarvestDir: harvestDir}
	log.Info("using harvest", "dir", harvestDir)

	rosterPath := filepath.Join(harvestDir, artifact.RosterFile)
	if _, err := os.Stat(rosterPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingRoster, rosterPath)
	}

	rosterTable, err := tabular.ReadCSV(rosterPath)
	if err != nil {
		return nil, err
	}

	roster, err := RosterEntries(rosterTable)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rosterPath, err)
	}

	if len(roster) == 0 {
		log.Warn("roster is empty, nothing to merge", "path", rosterPath)
		res.Elapsed = time.Since(start)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wb, err := artifact.Latest(j.Discoverer, artifact.KindEntityWorkbook)
	if err != nil {
		return nil, err
	}

	res.EntityWorkbook = wb.Path
	log.Info("using entity workbook", "path", wb.Path)

	entities, err := tabular.ReadWorkbook(wb.Path)
	if err != nil {
		return nil, err
	}

	index, err := BuildEntityIndex(entities)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", wb.Path, err)
	}

	res.Index = index.Stats

	contacts, stats := Join(roster, index)
	res.Stats = stats

	notices, err := j.loadNotices(harvestDir)
	if err != nil {
		return nil, err
	}

	if notices != nil {
		Enrich(contacts, notices)
		res.WithNotices = true
	}

	res.Table = Curate(contacts, index.Columns(), res.WithNotices)
	res.Digest = digest.Table(res.Table.Header, res.Table.Rows)

	res.Output = filepath.Join(harvestDir, artifact.CuratedName(harvestDir))
	if err := tabular.WriteWorkbook(res.Output, res.Table); err != nil {
		return nil, err
	}

	if err := verifyWorkbook(res.Output, res.Digest); err != nil {
		return nil, err
	}

	j.Metrics.AddJoinRows(string(models.MatchedByUEI), stats.ByUEI)
	j.Metrics.AddJoinRows(string(models.MatchedByCAGE), stats.ByCAGE)
	j.Metrics.AddJoinRows(string(models.Unmatched), stats.Unmatched)

	res.Elapsed = time.Since(start)

	log.Info("saved curated workbook",
		"path", res.Output,
		"rows", stats.Total,
		"by_uei", stats.ByUEI,
		"by_cage", stats.ByCAGE,
		"unmatched", stats.Unmatched,
		"duplicate_uei", index.Stats.DuplicateUEI,
		"duplicate_cage", index.Stats.DuplicateCAGE,
		"digest", res.Digest,
	)

	return res, nil
}

// verifyWorkbook reads the written workbook back and checks it carries
// exactly the curated table.
func verifyWorkbook(path, want string) error {
	written, err := tabular.ReadWorkbook(path)
	if err != nil {
		return err
	}

	if err := digest.Verify(want, written.Header, written.Rows); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

func (j *Job) loadNotices(harvestDir string) (NoticeIndex, error) {
	path := filepath.Join(harvestDir, artifact.NoticesFile)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	t, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	return BuildNoticeIndex(t), nil
}
