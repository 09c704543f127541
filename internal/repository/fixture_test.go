package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureSource_ReturnsCopiesInOrder(t *testing.T) {
	src, err := NewFixtureSource(DefaultProfiles())
	require.NoError(t, err)
	require.Equal(t, 8, src.Len())

	all, err := src.All(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"CR001", "CR002", "CR003", "CR004", "CR005", "CR006", "CR007", "CR008"}, ids)

	all[0].Name = "Mutated"
	*all[0].SubScores.Banking = 1

	again, err := src.Get(context.Background(), "CR001")
	require.NoError(t, err)
	assert.Equal(t, "Rajesh Kumar", again.Name)
	assert.InDelta(t, 85, *again.SubScores.Banking, 1e-9)
	assert.Equal(t, "rajesh.kumar@email.com", again.Email)
}

func TestFixtureSource_RejectsDuplicatesAndInvalid(t *testing.T) {
	profiles := CoreProfiles()
	profiles = append(profiles, profiles[0])
	_, err := NewFixtureSource(profiles)
	assert.True(t, errors.Is(err, ErrDuplicateID))

	bad := CoreProfiles()
	bad[2].CreditScore = 1200
	_, err = NewFixtureSource(bad)
	assert.Error(t, err)
}

func TestFixtureSource_GetMissing(t *testing.T) {
	src := MustFixtureSource(CoreProfiles())
	_, err := src.Get(context.Background(), "CR999")
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}

func TestFixtureFile_RoundTrip(t *testing.T) {
	for _, name := range []string{"profiles.yaml", "profiles.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, WriteProfiles(path, DefaultProfiles()))

			src, err := LoadFixtureFile(path)
			require.NoError(t, err)

			got, err := src.Get(context.Background(), "CR003")
			require.NoError(t, err)
			assert.Equal(t, "Amit Patel", got.Name)
			assert.True(t, got.LoanAmount.Equal(decimal.NewFromInt(800000)))
			assert.Equal(t, "2024-01-13", got.AssessmentDate.Format("2006-01-02"))
			require.NotNil(t, got.SubScores.SocialMedia)
			assert.InDelta(t, 58, *got.SubScores.SocialMedia, 1e-9)
		})
	}
}

func TestProfileRecord_ToDomainErrors(t *testing.T) {
	rec := RecordFromDomain(DefaultProfiles()[0])

	badDate := rec
	badDate.AssessmentDate = "15/01/2024"
	_, err := badDate.ToDomain()
	assert.Error(t, err)

	badLoan := rec
	badLoan.LoanAmount = "five lakh"
	_, err = badLoan.ToDomain()
	assert.Error(t, err)

	badRisk := rec
	badRisk.RiskLevel = "Unknown"
	_, err = badRisk.ToDomain()
	assert.Error(t, err)
}
