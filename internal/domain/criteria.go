package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey names a sortable profile field.
type SortKey string

const (
	SortNone           SortKey = ""
	SortName           SortKey = "name"
	SortAssessmentDate SortKey = "assessmentDate"
	SortLoanAmount     SortKey = "loanAmount"
	SortCreditScore    SortKey = "creditScore"
	SortConfidence     SortKey = "confidence"
)

var sortKeys = []SortKey{SortName, SortAssessmentDate, SortLoanAmount, SortCreditScore, SortConfidence}

// SortDirection orders results ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterAll is the sentinel accepted for categorical filters meaning "no constraint".
const FilterAll = "all"

// Criteria describes one search over the record store. Nil pointers are unconstrained.
type Criteria struct {
	Term           string
	Decision       *Decision
	Risk           *RiskLevel
	MinLoanAmount  *decimal.Decimal
	MaxLoanAmount  *decimal.Decimal
	MinCreditScore *int
	MaxCreditScore *int
	SortKey        SortKey
	SortDirection  SortDirection
}

// ParseSortKey accepts the sortable field names case-insensitively. Empty means no sort.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortNone, nil
	}
	for _, key := range sortKeys {
		if strings.EqualFold(s, string(key)) {
			return key, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

// ParseSortDirection defaults to ascending for an empty value.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// ParseDecisionFilter maps "" and "all" to nil.
func ParseDecisionFilter(s string) (*Decision, error) {
	if isAll(s) {
		return nil, nil
	}
	d, err := ParseDecision(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseRiskFilter maps "" and "all" to nil.
func ParseRiskFilter(s string) (*RiskLevel, error) {
	if isAll(s) {
		return nil, nil
	}
	r, err := ParseRiskLevel(s)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, FilterAll)
}
