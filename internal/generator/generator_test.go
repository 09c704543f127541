package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/repository"
)

var decimalTenThousand = decimal.NewFromInt(10000)

func TestGenerate_ProducesValidProfiles(t *testing.T) {
	profiles, err := New(Config{NumProfiles: 300, Seed: 7}).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 300)

	emails := make(map[string]bool)
	for i, p := range profiles {
		require.NoError(t, domain.ValidateProfile(p))
		assert.False(t, emails[p.Email], "duplicate email %s", p.Email)
		emails[p.Email] = true
		assert.Equal(t, riskForScore(p.CreditScore), p.RiskLevel)
		assert.True(t, p.LoanAmount.Mod(decimalTenThousand).IsZero())
		if i > 0 {
			assert.False(t, p.AssessmentDate.After(profiles[i-1].AssessmentDate), "dates must not increase")
		}
	}
	assert.Equal(t, "CR001", profiles[0].ID)
	assert.True(t, DefaultConfig().LatestDate.Equal(profiles[0].AssessmentDate))

	// the output is a loadable record store
	_, err = repository.NewFixtureSource(profiles)
	require.NoError(t, err)
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a, err := New(Config{NumProfiles: 20, Seed: 99}).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(Config{NumProfiles: 20, Seed: 99}).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{NumProfiles: 5, Seed: 1}).Generate(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNew_Defaults(t *testing.T) {
	g := New(Config{PendingChance: 3, Seed: 1})
	assert.Equal(t, DefaultConfig().NumProfiles, g.cfg.NumProfiles)
	assert.InDelta(t, DefaultConfig().PendingChance, g.cfg.PendingChance, 1e-9)
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(g.cfg.LatestDate))
}

func TestRiskForScore(t *testing.T) {
	assert.Equal(t, domain.RiskLow, riskForScore(720))
	assert.Equal(t, domain.RiskMedium, riskForScore(719))
	assert.Equal(t, domain.RiskMedium, riskForScore(650))
	assert.Equal(t, domain.RiskHigh, riskForScore(649))
}
