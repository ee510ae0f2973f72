package main

import (
	"flag"
	"fmt"
	"os"
	"time"
	"vizr-mcp/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, burst, drift")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	count := flag.Int("count", 200, "Number of records to generate")
	blanks := flag.Float64("blanks", 0.02, "Share of records without a date")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		BlankRatio:   *blanks,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *outDir)

	recs := engine.Generate(cfg)

	name := "VIZRTEST_0"
	if err := engine.Save(*outDir, name, recs, engine.Definitions(cfg.Count)); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
