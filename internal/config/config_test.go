package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultScoringURL, cfg.Scoring.URL)
	assert.Equal(t, defaultSessionTTL, cfg.Sessions.TTL)
	assert.Equal(t, 1, cfg.Scoring.Burst)
	assert.Empty(t, cfg.Graph.URI)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCORING_URL", "http://scoring.internal/predict")
	t.Setenv("SCORING_TIMEOUT", "3s")
	t.Setenv("SCORING_RATE_PER_SEC", "2.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HANDOFF_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "http://scoring.internal/predict", cfg.Scoring.URL)
	assert.Equal(t, 3*time.Second, cfg.Scoring.Timeout)
	assert.InDelta(t, 2.5, cfg.Scoring.RatePerSec, 1e-9)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 90*time.Second, cfg.Redis.HandoffTTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":          "70000",
		"SCORING_TIMEOUT":      "soon",
		"SCORING_RATE_PER_SEC": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
