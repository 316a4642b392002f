// Package main provides the unified worker command that runs normalization,
// harvesting, and merging in sequence.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"samivl/internal/config"
	"samivl/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/pipeline.yaml if present)")
	dataDir := flag.String("data", "", "Data root directory (overrides config)")
	stages := flag.String("stages", "normalize,harvest,merge", "Comma-separated stages to run")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	saveConfig := flag.String("save-config", "", "Write the effective configuration to this path and exit")

	flag.Parse()

	cfg, path, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		fmt.Printf("💾 Configuration written to %s\n", *saveConfig)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := pipeline.NewEnv(cfg)
	env.Logger.Info("🚀 Starting SAM IVL pipeline", "config", path, "data", cfg.Paths.DataDir, "stages", *stages)

	startTime := time.Now()
	exitCode := env.RunStages(ctx, pipeline.ParseStages(*stages))

	if err := env.Close(); err != nil {
		env.Logger.Warn(fmt.Sprintf("⚠️  %v", err))
	}

	if exitCode == 0 {
		env.Logger.Info("✨ Pipeline Complete!", "elapsed", time.Since(startTime).Round(time.Millisecond))
	}

	stop()
	os.Exit(exitCode)
}
