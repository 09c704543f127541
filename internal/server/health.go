package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/vanshika/creditbridge/backend/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	return nil
}

// RedisHealthService pings the result mailbox backend.
type RedisHealthService struct {
	Client redis.Cmdable
}

// Probe implements the HealthService interface.
func (s RedisHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// HealthChecks runs every probe and joins the failures.
type HealthChecks []HealthService

// Probe implements the HealthService interface.
func (h HealthChecks) Probe(ctx context.Context) error {
	var errs []error
	for _, check := range h {
		if check == nil {
			continue
		}
		if err := check.Probe(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
