package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"samivl/internal/artifact"
	"samivl/internal/config"
	"samivl/internal/validator"
)

// Stage names accepted by RunStages.
const (
	StageNormalize = "normalize"
	StageHarvest   = "harvest"
	StageMerge     = "merge"
)

// ParseStages splits a comma-separated stage list.
func ParseStages(list string) map[string]bool {
	run := map[string]bool{}
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			run[s] = true
		}
	}

	return run
}

// RunStages runs the selected stages in order and returns the process exit
// code. It never exits, so the caller can still flush metrics with Close.
func (e *Env) RunStages(ctx context.Context, run map[string]bool) int {
	log := e.Logger
	exitCode := 0
	harvestDir := ""

	// 1. Normalization
	if run[StageNormalize] {
		log.Info("Phase 1: Normalization (entity extract)...")

		res, err := e.RunNormalizer(ctx, "")
		if err != nil {
			log.Error(fmt.Sprintf("❌ Normalization failed: %v", err))
			return 1
		}

		log.Info(fmt.Sprintf("✅ Saved %d entities to %s", res.Entities, res.Output))
	}

	// 2. Harvest
	if run[StageHarvest] {
		log.Info("Phase 2: Harvest (notices and IVL rosters)...")

		apiKey, err := config.ResolveAPIKey(ctx, e.Config.Secrets, nil)
		if err != nil {
			log.Error(fmt.Sprintf("❌ %v", err))
			return 1
		}

		summary, err := e.RunHarvester(ctx, apiKey)
		if summary == nil {
			log.Error(fmt.Sprintf("❌ Harvest failed: %v", err))
			return 1
		}

		exitCode = ExitCode(summary, err)
		harvestDir = summary.RunDir

		log.Info(fmt.Sprintf("✅ Harvest %s: %d notices, %d IVL rows, %d API calls",
			summary.State, summary.Notices, summary.RosterRows, summary.APICalls))

		if _, upErr := e.Upload(ctx, summary.RunDir, artifact.NoticesFile, artifact.RosterFile, artifact.SummaryFile); upErr != nil {
			log.Warn(fmt.Sprintf("⚠️  Upload failed: %v", upErr))
		}

		if err != nil {
			log.Error(fmt.Sprintf("❌ Harvest error: %v", err))
			return 1
		}
	}

	// 3. Merge
	if run[StageMerge] {
		log.Info("Phase 3: Merge (roster x entities)...")

		if harvestDir != "" {
			check := validator.ValidateRun(harvestDir)
			if !check.IsValid {
				log.Warn(fmt.Sprintf("⚠️  %v", check.Err()))
			}

			for _, w := range check.Warnings {
				log.Warn("⚠️  " + w)
			}
		}

		res, err := e.RunMerger(ctx, harvestDir)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Merge failed: %v", err))
			return 1
		}

		if res.Empty() {
			log.Warn("⚠️  IVL roster is empty. Nothing to merge.")
			return exitCode
		}

		log.Info(fmt.Sprintf("✅ Curated %d rows (UEI %d, CAGE %d, unmatched %d) to %s",
			res.Stats.Total, res.Stats.ByUEI, res.Stats.ByCAGE, res.Stats.Unmatched, res.Output))

		if _, upErr := e.Upload(ctx, res.HarvestDir, filepath.Base(res.Output)); upErr != nil {
			log.Warn(fmt.Sprintf("⚠️  Upload failed: %v", upErr))
		}
	}

	return exitCode
}
