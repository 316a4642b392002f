// Package pipeline wires configuration into the normalizer, harvester, and
// merger jobs shared by the commands.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"samivl/internal/artifact"
	"samivl/internal/config"
	"samivl/internal/crawler"
	"samivl/internal/logger"
	"samivl/internal/manifest"
	"samivl/internal/merger"
	"samivl/internal/metrics"
	"samivl/internal/models"
	"samivl/internal/normalizer"
	"samivl/internal/storage"
)

// Job names used as the run-duration label.
const (
	JobNormalizer = "normalizer"
	JobHarvester  = "harvester"
	JobMerger     = "merger"
)

// Env holds what every command needs.
type Env struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Registry

	// NewAPI builds the opportunities client. Tests replace it.
	NewAPI func(cfg config.HarvesterConfig, apiKey string) (crawler.OpportunityAPI, error)
	// NewUploader builds the S3 uploader. Tests replace it.
	NewUploader func(ctx context.Context, cfg config.S3Config) (*storage.Uploader, error)
	// Clock overrides the harvester clock when set.
	Clock func() time.Time
}

// NewEnv creates an environment with a logger at the configured level and
// a fresh metrics registry.
func NewEnv(cfg *config.Config) *Env {
	return &Env{
		Config:      cfg,
		Logger:      logger.NewLogger(cfg.Logging.Level),
		Metrics:     metrics.NewRegistry(),
		NewAPI:      newClient,
		NewUploader: newUploader,
	}
}

func newClient(cfg config.HarvesterConfig, apiKey string) (crawler.OpportunityAPI, error) {
	client, err := crawler.NewClient(cfg.BaseURL, apiKey, cfg.Timeout())
	if err != nil {
		return nil, err
	}

	return client, nil
}

func newUploader(ctx context.Context, cfg config.S3Config) (*storage.Uploader, error) {
	return storage.NewS3Uploader(ctx, cfg.Region, cfg.Bucket, cfg.Prefix)
}

// Discoverer returns the on-disk artifact discoverer for the data root.
func (e *Env) Discoverer() artifact.FS {
	return artifact.FS{EntityRoot: e.Config.EntityRoot(), HarvestRoot: e.Config.HarvestRoot()}
}

// NormalizerJob builds the normalizer job. input overrides discovery.
func (e *Env) NormalizerJob(input string) (*normalizer.Job, error) {
	opts := []normalizer.Option{
		normalizer.WithLogger(e.Logger),
		normalizer.WithProgressEvery(e.Config.Normalizer.ProgressEvery),
	}

	if path := e.Config.Normalizer.LayoutFile; path != "" {
		layout, err := normalizer.LoadLayout(path)
		if err != nil {
			return nil, err
		}

		opts = append(opts, normalizer.WithLayout(layout))
	}

	return &normalizer.Job{
		Discoverer: e.Discoverer(),
		Processor:  normalizer.NewProcessor(opts...),
		Logger:     e.Logger.With("job", JobNormalizer),
		Input:      input,
	}, nil
}

// RunNormalizer normalizes the newest (or given) extract.
func (e *Env) RunNormalizer(ctx context.Context, input string) (*normalizer.Result, error) {
	start := time.Now()

	job, err := e.NormalizerJob(input)
	if err != nil {
		return nil, err
	}

	res, err := job.Run(ctx)
	if err != nil {
		return nil, err
	}

	e.Metrics.SetEntities(res.Entities, res.Stats.WithEmail, res.Stats.WithPhone)
	e.Metrics.ObserveRun(JobNormalizer, time.Since(start))

	return res, nil
}

// Publisher returns the configured extra summary publisher and a close
// function, or nil when none is configured.
func (e *Env) Publisher() (manifest.Publisher, func() error) {
	k := e.Config.Publish.Kafka
	if !k.Enabled() {
		return nil, func() error { return nil }
	}

	pub := manifest.NewKafkaPublisher(k.Brokers, k.Topic, k.Key)

	return pub, pub.Close
}

// RunHarvester performs one harvest with apiKey.
func (e *Env) RunHarvester(ctx context.Context, apiKey string) (*models.RunSummary, error) {
	start := time.Now()
	h := e.Config.Harvester

	api, err := e.NewAPI(h, apiKey)
	if err != nil {
		return nil, err
	}

	if c, ok := api.(interface{ Close() }); ok {
		defer c.Close()
	}

	options := []crawler.HarvesterOption{
		crawler.WithHarvestLogger(e.Logger.With("job", JobHarvester)),
		crawler.WithMetrics(e.Metrics),
	}

	pub, closePub := e.Publisher()
	defer func() {
		if err := closePub(); err != nil {
			e.Logger.Warn("failed to close summary publisher", "error", err)
		}
	}()

	if pub != nil {
		options = append(options, crawler.WithPublisher(pub))
	}

	if e.Clock != nil {
		options = append(options, crawler.WithClock(e.Clock))
	}

	harvester := crawler.NewHarvester(api, crawler.HarvestOptions{
		Root:         e.Config.HarvestRoot(),
		PType:        h.PType,
		OrgCode:      h.OrgCode,
		LookbackDays: h.LookbackDays,
		PageSize:     h.PageSize,
		RosterDelay:  h.RosterDelay(),
	}, options...)

	summary, err := harvester.Run(ctx)
	e.Metrics.ObserveRun(JobHarvester, time.Since(start))

	return summary, err
}

// RunMerger merges the newest (or given) harvest with the newest entity workbook.
func (e *Env) RunMerger(ctx context.Context, harvestDir string) (*merger.Result, error) {
	start := time.Now()

	job := &merger.Job{
		Discoverer: e.Discoverer(),
		Logger:     e.Logger.With("job", JobMerger),
		Metrics:    e.Metrics,
		HarvestDir: harvestDir,
	}

	res, err := job.Run(ctx)
	if err != nil {
		return nil, err
	}

	e.Metrics.ObserveRun(JobMerger, time.Since(start))

	return res, nil
}

// Upload copies files from runDir to S3 when a bucket is configured.
// It returns the uploaded keys, or nil when uploads are disabled.
func (e *Env) Upload(ctx context.Context, runDir string, files ...string) ([]string, error) {
	s3cfg := e.Config.Publish.S3
	if !s3cfg.Enabled() {
		return nil, nil
	}

	uploader, err := e.NewUploader(ctx, s3cfg)
	if err != nil {
		return nil, err
	}

	keys, err := uploader.UploadRun(ctx, runDir, files...)
	if err != nil {
		return keys, err
	}

	e.Logger.Info("uploaded artifacts", "bucket", s3cfg.Bucket, "keys", len(keys))

	return keys, nil
}

// Close writes the metrics textfile when configured.
func (e *Env) Close() error {
	if err := e.Metrics.WriteTextfile(e.Config.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}

// ExitCode maps a harvest outcome to a process exit status. Quota
// exhaustion is a normal end of a run.
func ExitCode(summary *models.RunSummary, err error) int {
	if err != nil || summary == nil || summary.State == models.StateSearchFailed {
		return 1
	}

	return 0
}
