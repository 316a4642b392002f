// Package main provides the preview command that prints a workbook or CSV
// as an aligned table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"samivl/internal/artifact"
	"samivl/internal/config"
	"samivl/internal/formatter"
	"samivl/internal/tabular"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: configs/pipeline.yaml if present)")
	targetPath := flag.String("path", "", "Workbook (.xlsx) or CSV to preview (default: newest curated workbook)")
	rows := flag.Int("rows", 0, "Rows to show (default: merger.preview_rows)")
	cols := flag.String("cols", "", "Comma-separated columns to show (default: all)")
	width := flag.Int("width", 40, "Maximum cell width; 0 disables truncation")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	cfg, _, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	path := *targetPath
	if path == "" {
		path, err = latestCurated(cfg)
		if err != nil {
			log.Fatalf("❌ %v\n", err)
		}
	}

	fmt.Printf("📂 Reading: %s\n\n", path)

	var table *tabular.Table

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		table, err = tabular.ReadWorkbook(path)
	case ".csv":
		table, err = tabular.ReadCSV(path)
	default:
		log.Fatalf("❌ Unsupported file type: %s\n", path)
	}

	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v\n", path, err)
	}

	n := *rows
	if n == 0 {
		n = cfg.Merger.PreviewRows
	}

	opts := formatter.Options{MaxRows: n, MaxCellWidth: *width}
	if *cols != "" {
		for _, c := range strings.Split(*cols, ",") {
			opts.Columns = append(opts.Columns, strings.TrimSpace(c))
		}
	}

	fmt.Print(formatter.FormatTable(table, opts))
	fmt.Printf("\n📈 %d rows, %d columns\n", table.Len(), len(table.Header))
}

func latestCurated(cfg *config.Config) (string, error) {
	dir, err := artifact.ResolveHarvest(artifact.FS{HarvestRoot: cfg.HarvestRoot()}, "")
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, artifact.CuratedName(dir)), nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter")
	fmt.Println("  ./bin/formatter -path data/harvests/202508/20250801_093215_p_harvest/ivl_hits.csv -rows 20")
	fmt.Println("  ./bin/formatter -cols \"Vendor Name,UEI,Email Addresses\"")
}
