package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rmg-pricing/internal/data"
)

// Aggregates the raw unit-sales extract into the SKU dataset consumed by
// the API: cleans pack/unit sizes, keeps one year of rows, groups and sums
// volume, and computes volume market share per group.
func main() {
	var (
		inputPath  = flag.String("input", "", "Path to the raw unit-sales extract CSV")
		outputPath = flag.String("output", "data/aggregated_sales.csv", "Output CSV path")
		year       = flag.Int("year", 2025, "Calendar year of rows to keep")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("--input is required")
	}

	fmt.Printf("Aggregating %s for year %d\n", *inputPath, *year)

	rows, err := data.AggregateExtract(*inputPath, *year)
	if err != nil {
		log.Fatalf("Failed to aggregate extract: %v", err)
	}
	if len(rows) == 0 {
		log.Fatalf("No usable rows for year %d in %s", *year, *inputPath)
	}

	var totalVolume, vomsSum float64
	for _, r := range rows {
		totalVolume += r.VolumeSold
		vomsSum += r.VoMS
	}
	fmt.Printf("Aggregated %d SKU groups, total volume %.2f (VoMS sum %.4f)\n",
		len(rows), totalVolume, vomsSum)

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := data.WriteAggregatedCSV(*outputPath, rows); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Data exported to %s\n", *outputPath)
}
