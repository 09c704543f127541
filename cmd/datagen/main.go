package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/creditbridge/backend/internal/generator"
	"github.com/vanshika/creditbridge/backend/internal/repository"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		profiles      = flag.Int("profiles", cfg.NumProfiles, "number of applicant profiles to generate")
		pendingChance = flag.Float64("pending-chance", cfg.PendingChance, "share of medium-risk applicants left pending")
		latest        = flag.String("latest-date", cfg.LatestDate.Format("2006-01-02"), "assessment date of the newest profile")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output        = flag.String("output", "seed-data/profiles.yaml", "fixture file to write (.json for JSON, YAML otherwise)")
	)
	flag.Parse()

	latestDate, err := time.Parse("2006-01-02", *latest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -latest-date: %v\n", err)
		os.Exit(1)
	}

	genCfg := generator.Config{
		NumProfiles:   *profiles,
		PendingChance: clampProbability(*pendingChance),
		LatestDate:    latestDate,
		Seed:          *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := repository.WriteProfiles(*output, dataset); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write profiles: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d profiles into %s\n", len(dataset), *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
