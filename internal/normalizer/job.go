package normalizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"samivl/internal/artifact"
	"samivl/internal/logger"
	"samivl/internal/tabular"
	"samivl/pkg/digest"
)

// Result describes a completed normalizer run.
type Result struct {
	Extract   string
	DataFile  string
	Unzipped  bool
	Output    string
	Stats     ParseStats
	Entities  int
	Digest    string
	StartedAt time.Time
}

// Job finds the newest extract, normalizes it, and writes the workbook.
type Job struct {
	Discoverer artifact.Discoverer
	Processor  *Processor
	Logger     *logger.Logger
	// Input overrides discovery when set.
	Input string
}

// Run executes the job.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	log := j.Logger
	if log == nil {
		log = logger.Discard()
	}

	res := &Result{StartedAt: time.Now()}

	extract := j.Input
	if extract == "" {
		c, err := artifact.Latest(j.Discoverer, artifact.KindExtract)
		if err != nil {
			return nil, err
		}

		extract = c.Path
	}

	dateTag, ok := artifact.ExtractDate(extract)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized extract name %s", artifact.ErrNoArtifacts, filepath.Base(extract))
	}

	res.Extract = extract
	log.Info("found extract", "path", extract)

	dataFile, unzipped, err := artifact.DataPath(extract)
	if err != nil {
		return nil, err
	}

	res.DataFile = dataFile
	res.Unzipped = unzipped
	log.Info("using data file", "path", dataFile, "unzipped", unzipped)

	f, err := os.Open(dataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract: %w", err)
	}
	defer f.Close()

	records, stats, err := j.Processor.Process(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", dataFile, err)
	}

	res.Stats = stats
	res.Entities = len(records)

	table := j.Processor.BuildTable(records)
	res.Digest = digest.Table(table.Header, table.Rows)

	res.Output = filepath.Join(filepath.Dir(dataFile), artifact.EntityWorkbookName(dateTag))
	if err := tabular.WriteWorkbook(res.Output, table, NumericColumns...); err != nil {
		return nil, err
	}

	log.Info("saved entity workbook",
		"path", res.Output,
		"rows", res.Entities,
		"with_email", stats.WithEmail,
		"with_phone", stats.WithPhone,
		"short_rows", stats.ShortRows,
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed.Round(time.Millisecond),
		"digest", res.Digest,
	)

	return res, nil
}
