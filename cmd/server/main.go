package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/creditbridge/backend/internal/assessment"
	"github.com/vanshika/creditbridge/backend/internal/config"
	"github.com/vanshika/creditbridge/backend/internal/graph"
	"github.com/vanshika/creditbridge/backend/internal/handoff"
	"github.com/vanshika/creditbridge/backend/internal/logging"
	"github.com/vanshika/creditbridge/backend/internal/repository"
	"github.com/vanshika/creditbridge/backend/internal/scoring"
	"github.com/vanshika/creditbridge/backend/internal/server"
	"github.com/vanshika/creditbridge/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var health server.HealthChecks

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	if graphClient != nil {
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
		health = append(health, server.GraphHealthService{Client: graphClient})
	}

	source, err := buildProfileSource(ctx, logger, cfg, graphClient)
	if err != nil {
		logger.Error("failed to load profiles", "error", err)
		os.Exit(1)
	}

	mailbox, redisClient, err := buildMailbox(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create result mailbox", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		health = append(health, server.RedisHealthService{Client: redisClient})
	}

	scorer, err := scoring.NewClient(scoring.Options{
		URL:        cfg.Scoring.URL,
		Timeout:    cfg.Scoring.Timeout,
		RatePerSec: cfg.Scoring.RatePerSec,
		Burst:      cfg.Scoring.Burst,
		Logger:     logger.With("component", "scoring"),
	})
	if err != nil {
		logger.Error("failed to create scoring client", "error", err)
		os.Exit(1)
	}

	registry := assessment.NewRegistry(cfg.Sessions.TTL)

	profileService := service.NewProfileService(source, logger.With("component", "profiles"))
	assessmentService := service.NewAssessmentService(registry, scorer, mailbox, logger.With("component", "assessments"))
	apiHandlers := server.NewAPIHandlers(logger, profileService, assessmentService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           health,
		API:              apiHandlers,
		AllowedOrigins:   server.ParseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		registry.RunSweeper(groupCtx, cfg.Sessions.SweepInterval, logger.With("component", "sessions"))
		return nil
	})
	group.Go(func() error {
		defer stop()
		return srv.Run(groupCtx)
	})
	if err := group.Wait(); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}

// buildGraphClient returns nil when no graph is configured.
func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	if opts.URI == "" {
		return nil, nil
	}
	return graph.NewNeo4jClient(ctx, opts)
}

// buildProfileSource prefers the graph, then a fixture file, then the built-in set.
func buildProfileSource(ctx context.Context, logger *slog.Logger, cfg config.Config, client graph.Client) (repository.ProfileSource, error) {
	switch {
	case client != nil:
		src, err := repository.NewGraphStore(client).Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded profiles from graph", "count", src.Len(), "database", cfg.Graph.Database)
		return src, nil
	case cfg.Fixtures.Path != "":
		src, err := repository.LoadFixtureFile(cfg.Fixtures.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded profiles from fixture file", "count", src.Len(), "path", cfg.Fixtures.Path)
		return src, nil
	default:
		src := repository.MustFixtureSource(repository.DefaultProfiles())
		logger.Info("using built-in profiles", "count", src.Len())
		return src, nil
	}
}

func buildMailbox(ctx context.Context, logger *slog.Logger, cfg config.Config) (handoff.Mailbox, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return handoff.NewMemoryMailbox(), nil, nil
	}
	client, err := handoff.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("result hand-off backed by redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.HandoffTTL.String())
	return handoff.NewRedisMailbox(client, cfg.Redis.HandoffTTL), client, nil
}
