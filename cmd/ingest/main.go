package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/creditbridge/backend/internal/config"
	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/graph"
	"github.com/vanshika/creditbridge/backend/internal/logging"
	"github.com/vanshika/creditbridge/backend/internal/repository"
	"github.com/vanshika/creditbridge/backend/internal/service"
)

var errMissingDataset = errors.New("profile fixture file not found")

func main() {
	var (
		filePath = flag.String("file", "", "Path to a YAML or JSON profile fixture file (defaults to FIXTURES_PATH)")
		defaults = flag.Bool("defaults", false, "Ingest the built-in eight-profile fixture set instead of a file")
		workers  = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	profiles, source, err := loadProfiles(*filePath, cfg.Fixtures.Path, *defaults)
	if err != nil {
		logger.Error("failed to load profiles", "error", err)
		os.Exit(1)
	}
	if len(profiles) == 0 {
		logger.Error("profile dataset empty", "source", source)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	store := repository.NewGraphStore(graphClient)
	ingestor := service.NewBulkIngestor(store, *workers)

	start := time.Now()
	logger.Info("ingesting profiles", "count", len(profiles), "workers", *workers, "source", source)
	if err := ingestor.IngestProfiles(ctx, profiles); err != nil {
		logger.Error("profile ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "profiles", len(profiles))
}

func loadProfiles(flagPath, envPath string, useDefaults bool) ([]domain.Profile, string, error) {
	if useDefaults {
		return repository.DefaultProfiles(), "built-in", nil
	}
	path := flagPath
	if path == "" {
		path = envPath
	}
	if path == "" {
		return nil, "", fmt.Errorf("%w: pass -file or set FIXTURES_PATH", errMissingDataset)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, path, fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	profiles, err := repository.ReadProfiles(path)
	if err != nil {
		return nil, path, err
	}
	return profiles, path, nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
