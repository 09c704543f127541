package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		ID:             "CR001",
		Name:           "Rajesh Kumar",
		Email:          "rajesh.kumar@email.com",
		Phone:          "+91 98765 43210",
		AssessmentDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		LoanAmount:     decimal.NewFromInt(500000),
		CreditScore:    750,
		RiskLevel:      RiskLow,
		Decision:       DecisionApproved,
		Confidence:     87.3,
	}
}

func TestValidateProfile(t *testing.T) {
	require.NoError(t, ValidateProfile(validProfile()))

	tooHigh := 101.0
	cases := map[string]func(p *Profile){
		"missing id":      func(p *Profile) { p.ID = " " },
		"negative loan":   func(p *Profile) { p.LoanAmount = decimal.NewFromInt(-1) },
		"score too low":   func(p *Profile) { p.CreditScore = 299 },
		"score too high":  func(p *Profile) { p.CreditScore = 901 },
		"unknown risk":    func(p *Profile) { p.RiskLevel = "Severe" },
		"unknown outcome": func(p *Profile) { p.Decision = "Deferred" },
		"confidence":      func(p *Profile) { p.Confidence = -0.1 },
		"sub score":       func(p *Profile) { p.SubScores.Document = &tooHigh },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := validProfile()
			mutate(&p)
			err := ValidateProfile(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProfile))
		})
	}
}

func TestParseEnumerations(t *testing.T) {
	d, err := ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, d)

	r, err := ParseRiskLevel(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, r)

	_, err = ParseDecision("maybe")
	assert.Error(t, err)
}

func TestCategoricalFilters(t *testing.T) {
	d, err := ParseDecisionFilter("All")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDecisionFilter("rejected")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, DecisionRejected, *d)

	r, err := ParseRiskFilter("")
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = ParseRiskFilter("extreme")
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	key, err := ParseSortKey("creditscore")
	require.NoError(t, err)
	assert.Equal(t, SortCreditScore, key)

	key, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, key)

	_, err = ParseSortKey("email")
	assert.Error(t, err)

	dir, err := ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, dir)

	dir, err = ParseSortDirection("")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, dir)
}

func TestFieldValueJSON(t *testing.T) {
	var fields map[string]FieldValue
	require.NoError(t, json.Unmarshal([]byte(`{"cibilScore":"750","linkedinVerified":true,"simAge":24}`), &fields))

	assert.Equal(t, Text("750"), fields["cibilScore"])
	assert.Equal(t, Flag(true), fields["linkedinVerified"])
	assert.Equal(t, Text("24"), fields["simAge"])

	out, err := json.Marshal(map[string]FieldValue{"dobMatch": Flag(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dobMatch":false}`, string(out))

	var bad FieldValue
	assert.Error(t, json.Unmarshal([]byte(`{"nested":1}`), &bad))
}
