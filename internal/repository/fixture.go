package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// FixtureSource is an immutable, ordered record store built once at startup.
// Readers always receive copies.
type FixtureSource struct {
	profiles []domain.Profile
	index    map[string]int
}

// NewFixtureSource validates the records and freezes them in the given order.
func NewFixtureSource(profiles []domain.Profile) (*FixtureSource, error) {
	src := &FixtureSource{
		profiles: make([]domain.Profile, 0, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if err := domain.ValidateProfile(p); err != nil {
			return nil, err
		}
		if _, dup := src.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		src.index[p.ID] = len(src.profiles)
		src.profiles = append(src.profiles, cloneProfile(p))
	}
	return src, nil
}

// MustFixtureSource panics on invalid fixtures. Only for literal data.
func MustFixtureSource(profiles []domain.Profile) *FixtureSource {
	src, err := NewFixtureSource(profiles)
	if err != nil {
		panic(err)
	}
	return src
}

// All returns every record in insertion order.
func (s *FixtureSource) All(context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = cloneProfile(p)
	}
	return out, nil
}

// Get returns a single record by ID.
func (s *FixtureSource) Get(_ context.Context, id string) (domain.Profile, error) {
	idx, ok := s.index[id]
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return cloneProfile(s.profiles[idx]), nil
}

// Len reports the number of records held.
func (s *FixtureSource) Len() int {
	return len(s.profiles)
}

func cloneProfile(p domain.Profile) domain.Profile {
	p.SubScores = domain.SubScores{
		Banking:     cloneFloat(p.SubScores.Banking),
		SocialMedia: cloneFloat(p.SubScores.SocialMedia),
		Document:    cloneFloat(p.SubScores.Document),
	}
	return p
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// DefaultProfiles returns the extended eight-record applicant fixture set.
func DefaultProfiles() []domain.Profile {
	return []domain.Profile{
		fixture("CR001", "Rajesh Kumar", "+91 98765 43210", "2024-01-15", 500000, 750, domain.RiskLow, domain.DecisionApproved, 87.3, 85, 75, 92),
		fixture("CR002", "Priya Sharma", "+91 87654 32109", "2024-01-14", 300000, 680, domain.RiskMedium, domain.DecisionApproved, 72.1, 78, 82, 88),
		fixture("CR003", "Amit Patel", "+91 76543 21098", "2024-01-13", 800000, 620, domain.RiskHigh, domain.DecisionRejected, 91.5, 65, 58, 75),
		fixture("CR004", "Sneha Reddy", "+91 65432 10987", "2024-01-12", 250000, 720, domain.RiskLow, domain.DecisionApproved, 84.7, 88, 79, 91),
		fixture("CR005", "Vikram Singh", "+91 54321 09876", "2024-01-11", 600000, 590, domain.RiskHigh, domain.DecisionRejected, 89.2, 62, 45, 68),
		fixture("CR006", "Anita Gupta", "+91 43210 98765", "2024-01-10", 400000, 700, domain.RiskMedium, domain.DecisionPending, 76.8, 82, 71, 85),
		fixture("CR007", "Arjun Mehta", "+91 32109 87654", "2024-01-09", 750000, 640, domain.RiskMedium, domain.DecisionRejected, 83.4, 70, 65, 78),
		fixture("CR008", "Kavya Nair", "+91 21098 76543", "2024-01-08", 350000, 780, domain.RiskLow, domain.DecisionApproved, 92.1, 94, 87, 96),
	}
}

// CoreProfiles returns the first six records, the set listed on the profiles page.
func CoreProfiles() []domain.Profile {
	return DefaultProfiles()[:6]
}

func fixture(id, name, phone, date string, loan int64, credit int, risk domain.RiskLevel, decision domain.Decision, confidence, banking, social, document float64) domain.Profile {
	assessed, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return domain.Profile{
		ID:             id,
		Name:           name,
		Email:          emailFor(name),
		Phone:          phone,
		AssessmentDate: assessed,
		LoanAmount:     decimal.NewFromInt(loan),
		CreditScore:    credit,
		RiskLevel:      risk,
		Decision:       decision,
		Confidence:     confidence,
		SubScores: domain.SubScores{
			Banking:     &banking,
			SocialMedia: &social,
			Document:    &document,
		},
	}
}
