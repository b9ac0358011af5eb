// Command compare runs the full comparison pipeline over two theme mapping
// files: per-response and per-theme metrics, a JSON results file, a plain
// text summary, and PNG charts. With -db the run is also persisted for the
// HTTP server to browse.
package main

import (
	"flag"
	"log"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ThomasJButler/iAI-Assessment/internal/charts"
	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
	"github.com/ThomasJButler/iAI-Assessment/internal/config"
	"github.com/ThomasJButler/iAI-Assessment/internal/db"
	"github.com/ThomasJButler/iAI-Assessment/internal/fsutil"
	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/report"
)

var (
	mapping1File = flag.String("mapping1", "mapping1.json", "First theme mapping file")
	mapping2File = flag.String("mapping2", "mapping2.json", "Second theme mapping file")
	resultsFile  = flag.String("results", "comparison_results.json", "Output path for full results JSON")
	summaryFile  = flag.String("summary", "comparison_summary.txt", "Output path for plain text summary")
	chartsDir    = flag.String("charts", "", "Directory for PNG charts (skipped when empty)")
	dbFile       = flag.String("db", "", "Persist the run to this database (skipped when empty)")
	configFile   = flag.String("config", "", "Path to pipeline config JSON (optional)")
	workers      = flag.Int("workers", 0, "Worker count for per-response metrics (overrides config)")
)

func main() {
	flag.Parse()

	cfg := config.EmptyPipelineConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	workerCount := cfg.GetWorkers()
	if *workers > 0 {
		workerCount = *workers
	}

	pair, err := mapping.LoadAlignedFiles(*mapping1File, *mapping2File)
	if err != nil {
		log.Fatalf("Failed to load mappings: %v", err)
	}

	result := compare.CompareWithOptions(pair, compare.Options{Workers: workerCount})

	writer := report.NewWriter(fsutil.OSFileSystem{})
	if err := writer.WriteResults(result, *resultsFile); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
	if err := writer.WriteSummary(result, *summaryFile); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
	log.Printf("wrote %s and %s", *resultsFile, *summaryFile)

	if *chartsDir != "" {
		n, err := charts.Generate(result, *chartsDir)
		if err != nil {
			log.Fatalf("Failed to generate charts: %v", err)
		}
		log.Printf("wrote %d charts to %s", n, *chartsDir)
	}

	if *dbFile != "" {
		database, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		runID := uuid.NewString()
		if err := database.SaveRun(runID, *mapping1File, *mapping2File, result); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}
		log.Printf("saved run %s", runID)
	}
}
