package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"rmg-pricing/internal/data"
	"rmg-pricing/internal/pricing"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "impact":
		cmdImpact(os.Args[2:])
	case "market":
		cmdMarket(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli impact --data data/SKU.csv --sku \"SKU NAME\" --change 5.0")
	fmt.Println("  cli market --data data/SKU.csv --scenario scenario.yaml --out results/shares.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - impact projects one SKU under a signed percentage price change")
	fmt.Println("  - market applies a scenario of simultaneous changes and reports new shares")
}

func cmdImpact(args []string) {
	fs := flag.NewFlagSet("impact", flag.ExitOnError)
	dataPath := fs.String("data", "data/SKU.csv", "Path to SKU dataset CSV")
	skuName := fs.String("sku", "", "SKU name")
	change := fs.Float64("change", 0, "Price change percent (signed)")
	_ = fs.Parse(args)

	if *skuName == "" {
		fmt.Println("--sku is required")
		os.Exit(2)
	}

	snapshot, err := data.LoadSnapshot(*dataPath)
	if err != nil {
		fatal(err)
	}

	impact, err := pricing.NewCalculator(snapshot).PriceImpact(*skuName, *change)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("SKU:                   %s\n", *skuName)
	fmt.Printf("price change:          %+.2f%%\n", *change)
	fmt.Printf("new price:             %.2f\n", impact.NewPrice)
	fmt.Printf("new volume:            %.2f\n", impact.NewVolume)
	fmt.Printf("new revenue:           %.2f\n", impact.NewRevenue)
	if impact.NewGP != nil {
		fmt.Printf("new gross profit:      %.2f\n", *impact.NewGP)
	} else {
		fmt.Printf("new gross profit:      n/a (no GP%% on record)\n")
	}
	fmt.Printf("volume change percent: %.1f\n", impact.VolumeChangePercent)
}

// scenarioFile is the YAML shape for the market subcommand.
type scenarioFile struct {
	PriceChanges []pricing.PriceChange `yaml:"price_changes"`
}

func cmdMarket(args []string) {
	fs := flag.NewFlagSet("market", flag.ExitOnError)
	dataPath := fs.String("data", "data/SKU.csv", "Path to SKU dataset CSV")
	scenarioPath := fs.String("scenario", "", "Path to YAML scenario file")
	outPath := fs.String("out", "", "Optional output CSV path for new market shares")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Println("--scenario is required")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*scenarioPath)
	if err != nil {
		fatal(err)
	}
	var scenario scenarioFile
	if err := yaml.Unmarshal(raw, &scenario); err != nil {
		fatal(err)
	}

	snapshot, err := data.LoadSnapshot(*dataPath)
	if err != nil {
		fatal(err)
	}

	impact, err := pricing.NewCalculator(snapshot).MarketImpact(scenario.PriceChanges)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("changes applied:       %d\n", len(scenario.PriceChanges))
	fmt.Printf("market volume change:  %+.1f%%\n", impact.MarketVolumeChange)
	fmt.Printf("market revenue change: %+.1f%%\n", impact.MarketRevenueChange)
	fmt.Println("new market shares:")

	names := make([]string, 0, len(impact.NewMarketShares))
	for name := range impact.NewMarketShares {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		share := impact.NewMarketShares[name]
		fmt.Printf("  %-40s volume %5.1f%%  value %5.1f%%\n", name, share.VolumeShare, share.ValueShare)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fatal(err)
		}
		if err := pricing.WriteSharesCSV(*outPath, impact); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote shares to %s\n", *outPath)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
