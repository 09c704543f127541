package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the assessed risk bucket of an applicant.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels lists every risk level in display order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Decision is the outcome of a credit assessment.
type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionRejected Decision = "Rejected"
	DecisionPending  Decision = "Pending"
)

// Decisions lists every decision in display order.
var Decisions = []Decision{DecisionApproved, DecisionRejected, DecisionPending}

// Credit score domain bounds (CIBIL scale).
const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

// DateLayout is the calendar date format used for assessment dates.
const DateLayout = "2006-01-02"

// ErrInvalidProfile wraps every profile validation failure.
var ErrInvalidProfile = errors.New("invalid profile")

// SubScores holds the optional per-source scores shown on the search page.
type SubScores struct {
	Banking     *float64
	SocialMedia *float64
	Document    *float64
}

// Profile is an applicant record as held by the record store.
type Profile struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	AssessmentDate time.Time
	LoanAmount     decimal.Decimal
	CreditScore    int
	RiskLevel      RiskLevel
	Decision       Decision
	Confidence     float64
	SubScores      SubScores
}

// ParseRiskLevel matches a risk level case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, level := range RiskLevels {
		if strings.EqualFold(strings.TrimSpace(s), string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf("unknown risk level %q", s)
}

// ParseDecision matches a decision case-insensitively.
func ParseDecision(s string) (Decision, error) {
	for _, d := range Decisions {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown decision %q", s)
}

// ValidateProfile checks the closed enumerations and numeric bounds of a record.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}
	if p.LoanAmount.IsNegative() {
		return fmt.Errorf("%w: %s loan amount is negative", ErrInvalidProfile, p.ID)
	}
	if p.CreditScore < MinCreditScore || p.CreditScore > MaxCreditScore {
		return fmt.Errorf("%w: %s credit score %d outside [%d,%d]", ErrInvalidProfile, p.ID, p.CreditScore, MinCreditScore, MaxCreditScore)
	}
	if _, err := ParseRiskLevel(string(p.RiskLevel)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.ID, err)
	}
	if _, err := ParseDecision(string(p.Decision)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.ID, err)
	}
	if !inPercentRange(p.Confidence) {
		return fmt.Errorf("%w: %s confidence %.2f outside [0,100]", ErrInvalidProfile, p.ID, p.Confidence)
	}
	for name, score := range map[string]*float64{
		"banking":      p.SubScores.Banking,
		"social media": p.SubScores.SocialMedia,
		"document":     p.SubScores.Document,
	} {
		if score != nil && !inPercentRange(*score) {
			return fmt.Errorf("%w: %s %s score %.2f outside [0,100]", ErrInvalidProfile, p.ID, name, *score)
		}
	}
	return nil
}

func inPercentRange(v float64) bool {
	return v >= 0 && v <= 100
}
