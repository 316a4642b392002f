// Package main provides the harvester command that pages opportunity notices
// and records each notice's interested vendor list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"samivl/internal/artifact"
	"samivl/internal/config"
	"samivl/internal/models"
	"samivl/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/pipeline.yaml if present)")
	dataDir := flag.String("data", "", "Data root directory (overrides config)")
	ptype := flag.String("ptype", "", "Notice type: p (presolicitation) or r (sources sought)")
	org := flag.String("org", "", "Organization code (overrides config)")
	lookback := flag.Int("lookback", 0, "Lookback window in days (overrides config)")
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

	if *ptype != "" {
		cfg.Harvester.PType = *ptype
	}

	if *org != "" {
		cfg.Harvester.OrgCode = *org
	}

	if *lookback > 0 {
		cfg.Harvester.LookbackDays = *lookback
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey, err := config.ResolveAPIKey(ctx, cfg.Secrets, nil)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	fmt.Printf("✅ Configuration: %s\n", cfg)
	fmt.Println("🚀 Begin harvest...")

	env := pipeline.NewEnv(cfg)

	summary, err := env.RunHarvester(ctx, apiKey)
	if err != nil {
		fmt.Printf("❌ Harvest error: %v\n", err)
	}

	if summary != nil {
		printSummary(summary)

		if _, upErr := env.Upload(ctx, summary.RunDir, artifact.NoticesFile, artifact.RosterFile, artifact.SummaryFile); upErr != nil {
			fmt.Printf("⚠️  Upload failed: %v\n", upErr)
		}
	}

	if closeErr := env.Close(); closeErr != nil {
		log.Printf("⚠️  %v\n", closeErr)
	}

	stop()
	os.Exit(pipeline.ExitCode(summary, err))
}

func printSummary(s *models.RunSummary) {
	fmt.Printf("📁 Output folder: %s\n", s.RunDir)

	switch s.State {
	case models.StateQuotaExhausted:
		fmt.Println("⏹  Daily quota hit. Stopping.")
	case models.StateSearchFailed:
		fmt.Printf("❌ Search failed: %s\n", s.Error)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary (%s):\n", s.State)
	fmt.Printf("  Window:     %s - %s\n", s.PostedFrom, s.PostedTo)
	fmt.Printf("  Pages:      %d\n", s.Pages)
	fmt.Printf("  API calls:  %d\n", s.APICalls)
	fmt.Printf("  Notices:    %d\n", s.Notices)
	fmt.Printf("  IVL rows:   %d\n", s.RosterRows)
	fmt.Printf("  Quota hit:  %t\n", s.QuotaHit)
}
