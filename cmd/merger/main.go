// Package main provides the merger command that joins the newest harvest
// roster with the newest entity workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"samivl/internal/artifact"
	"samivl/internal/config"
	"samivl/internal/formatter"
	"samivl/internal/merger"
	"samivl/internal/pipeline"
	"samivl/internal/validator"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/pipeline.yaml if present)")
	dataDir := flag.String("data", "", "Data root directory (overrides config)")
	harvest := flag.String("harvest", "", "Harvest directory to merge (default: newest *_harvest)")
	preview := flag.Int("preview", -1, "Rows to preview after writing (overrides config)")
	strict := flag.Bool("strict", false, "Abort when the harvest run fails validation")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	flag.Parse()

	cfg, path, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if path != "" {
		fmt.Printf("⚙️  Loaded configuration: %s\n", path)
	}

	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}

	if *preview >= 0 {
		cfg.Merger.PreviewRows = *preview
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := pipeline.NewEnv(cfg)

	harvestDir, err := artifact.ResolveHarvest(env.Discoverer(), *harvest)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	fmt.Println("🔍 Validating harvest run...")

	check := validator.ValidateRun(harvestDir)
	check.PrintWarnings()
	check.PrintErrors()
	fmt.Printf("%s\n", check)

	if *strict && !check.IsValid {
		log.Fatalf("❌ Validation failed in strict mode: %v\n", check.Err())
	}

	res, err := env.RunMerger(ctx, harvestDir)
	if err != nil {
		log.Fatalf("❌ Merge failed: %v\n", err)
	}

	fmt.Printf("📂 Harvest: %s\n", res.HarvestDir)

	if res.Empty() {
		fmt.Println("⚠️  IVL roster is empty. Nothing to merge.")
	} else {
		report(ctx, env, res)
	}

	if err := env.Close(); err != nil {
		log.Printf("⚠️  %v\n", err)
	}
}

// report prints the merge result, a preview, and uploads the workbook.
func report(ctx context.Context, env *pipeline.Env, res *merger.Result) {
	fmt.Printf("📊 Entity workbook: %s\n", res.EntityWorkbook)
	fmt.Printf("🔗 Rows: %d | UEI: %d | CAGE: %d | Unmatched: %d\n",
		res.Stats.Total, res.Stats.ByUEI, res.Stats.ByCAGE, res.Stats.Unmatched)
	fmt.Printf("✅ Curated file saved: %s\n", res.Output)

	if n := env.Config.Merger.PreviewRows; n > 0 {
		fmt.Println()
		fmt.Print(formatter.FormatTable(res.Table, formatter.Options{
			MaxRows:      n,
			MaxCellWidth: 40,
			Columns:      []string{"Vendor Name", "UEI", "CAGE", "Has Email", "Email Addresses", "Match Method"},
		}))
	}

	if _, err := env.Upload(ctx, res.HarvestDir, filepath.Base(res.Output)); err != nil {
		fmt.Printf("⚠️  Upload failed: %v\n", err)
	}
}
