package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"catalogserver/database"
	"catalogserver/importer"
	"catalogserver/internal/config"
)

func main() {
	var (
		filePath = flag.String("file", "", "Path to the supplier catalog file (csv/xml/json/xlsx)")
		format   = flag.String("format", "", "Format hint override: csv-strict, csv-heuristic, yml, json, xlsx")
		dryRun   = flag.Bool("dry-run", false, "Parse and report without writing to the database")
	)
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	hint := importer.FormatHint(*format)
	if hint == "" {
		hint, err = importer.DetectFormatHint(filepath.Base(*filePath), "")
		if err != nil {
			log.Fatalf("Cannot determine file format: %v", err)
		}
	}

	pipeline := importer.NewPipeline(importer.Options{MaxRecords: cfg.MaxImportRecords})
	products, summary, err := pipeline.Run(data, hint)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	printSummary(summary)

	if *dryRun {
		log.Printf("Dry run: %d products not persisted", len(products))
		return
	}

	db, err := database.NewCatalogDB(cfg.DatabasePath, database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer db.Close()

	inserted, updated, err := db.SaveProducts(products)
	if err != nil {
		log.Fatalf("Failed to save products: %v", err)
	}

	runID := uuid.New().String()
	if err := db.SaveImportRun(runID, filepath.Base(*filePath), summary); err != nil {
		log.Fatalf("Failed to save import run: %v", err)
	}

	log.Printf("Saved to catalog: %d inserted, %d updated (run %s)", inserted, updated, runID)
}

func printSummary(summary *importer.ImportSummary) {
	fmt.Printf("Format:    %s\n", summary.Format)
	fmt.Printf("Encoding:  %s", summary.EncodingDetected)
	if summary.EncodingFallback {
		fmt.Printf(" (fallback, text may be garbled)")
	}
	fmt.Println()
	fmt.Printf("Records:   %d total, %d accepted, %d skipped\n", summary.Total, summary.Accepted, summary.Skipped)

	if len(summary.SkipsByReason) > 0 {
		fmt.Println("Skips by reason:")
		for reason, count := range summary.SkipsByReason {
			fmt.Printf("  %-20s %d\n", reason, count)
		}
	}

	if len(summary.SampleAccepted) > 0 {
		fmt.Println("Sample accepted products:")
		for _, p := range summary.SampleAccepted {
			fmt.Printf("  [%s] %s - %.2f\n", p.SKU, p.Name, p.Price)
		}
	}
}
