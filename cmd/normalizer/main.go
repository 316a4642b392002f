// Package main provides the normalizer command that turns the monthly SAM
// entity extract into the formatted entity workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"samivl/internal/config"
	"samivl/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/pipeline.yaml if present)")
	dataDir := flag.String("data", "", "Data root directory (overrides config)")
	input := flag.String("input", "", "Extract .zip or .dat to process (default: newest under <data>/entity)")
	layoutFile := flag.String("layout", "", "Column layout YAML (overrides config)")
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

	if *layoutFile != "" {
		cfg.Normalizer.LayoutFile = *layoutFile
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

	fmt.Printf("📂 Scanning: %s\n", cfg.EntityRoot())

	res, err := env.RunNormalizer(ctx, *input)
	if err != nil {
		log.Fatalf("❌ Normalization failed: %v\n", err)
	}

	if res.Unzipped {
		fmt.Printf("📦 Extracted: %s\n", res.DataFile)
	}

	fmt.Printf("📊 Parsed %d rows (%d short, %d skipped) in %v\n",
		res.Stats.Rows, res.Stats.ShortRows, res.Stats.Skipped, res.Stats.Elapsed)
	fmt.Printf("📧 With email: %d | 📞 With phone: %d\n", res.Stats.WithEmail, res.Stats.WithPhone)
	fmt.Printf("✅ Saved %d entities to: %s\n", res.Entities, res.Output)

	if err := env.Close(); err != nil {
		log.Printf("⚠️  %v\n", err)
	}
}
