// Package query filters, sorts and summarizes the applicant record store.
// Everything here is a pure function over an in-memory slice; a linear scan is
// all the record store sizes call for.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// Search returns the records matching c, ordered by c's sort key. The input
// slice is never modified and equal keys keep their insertion order.
func Search(records []domain.Profile, c domain.Criteria) []domain.Profile {
	term := strings.ToLower(c.Term)

	matches := make([]domain.Profile, 0, len(records))
	for _, p := range records {
		if matchesTerm(p, term) && matchesFilters(p, c) {
			matches = append(matches, p)
		}
	}

	if compare := comparator(c.SortKey); compare != nil {
		desc := c.SortDirection == domain.SortDesc
		slices.SortStableFunc(matches, func(a, b domain.Profile) int {
			if desc {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}
	return matches
}

func matchesTerm(p domain.Profile, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Email, p.ID, p.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesFilters(p domain.Profile, c domain.Criteria) bool {
	if c.Decision != nil && p.Decision != *c.Decision {
		return false
	}
	if c.Risk != nil && p.RiskLevel != *c.Risk {
		return false
	}
	if c.MinLoanAmount != nil && p.LoanAmount.LessThan(*c.MinLoanAmount) {
		return false
	}
	if c.MaxLoanAmount != nil && p.LoanAmount.GreaterThan(*c.MaxLoanAmount) {
		return false
	}
	if c.MinCreditScore != nil && p.CreditScore < *c.MinCreditScore {
		return false
	}
	if c.MaxCreditScore != nil && p.CreditScore > *c.MaxCreditScore {
		return false
	}
	return true
}

// comparator returns nil for SortNone. Reversing the arguments for descending
// order keeps ties at zero, so the stable sort preserves insertion order both ways.
func comparator(key domain.SortKey) func(a, b domain.Profile) int {
	switch key {
	case domain.SortName:
		return func(a, b domain.Profile) int {
			if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		}
	case domain.SortAssessmentDate:
		return func(a, b domain.Profile) int { return a.AssessmentDate.Compare(b.AssessmentDate) }
	case domain.SortLoanAmount:
		return func(a, b domain.Profile) int { return a.LoanAmount.Cmp(b.LoanAmount) }
	case domain.SortCreditScore:
		return func(a, b domain.Profile) int { return cmp.Compare(a.CreditScore, b.CreditScore) }
	case domain.SortConfidence:
		return func(a, b domain.Profile) int { return cmp.Compare(a.Confidence, b.Confidence) }
	default:
		return nil
	}
}
