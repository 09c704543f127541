package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/logging"
	"github.com/vanshika/creditbridge/backend/internal/query"
	"github.com/vanshika/creditbridge/backend/internal/repository"
)

// ErrInvalidQuery wraps filter or sort values that cannot be parsed.
var ErrInvalidQuery = errors.New("invalid query")

// ProfileService answers dashboard queries against the record store.
type ProfileService struct {
	source repository.ProfileSource
	logger *slog.Logger
}

// ProfilesPage is one page of search results.
type ProfilesPage struct {
	Items      []domain.Profile
	Pagination query.PageMeta
}

// ProfileSearchParams are the raw search-page controls. Categorical values
// accept "all" or an empty string for no filtering.
type ProfileSearchParams struct {
	Page           int
	PageSize       int
	Search         string
	Decision       string
	Risk           string
	MinLoanAmount  *decimal.Decimal
	MaxLoanAmount  *decimal.Decimal
	MinCreditScore *int
	MaxCreditScore *int
	SortField      string
	SortOrder      string
}

// NewProfileService wires a ProfileService to a record store.
func NewProfileService(source repository.ProfileSource, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ProfileService{source: source, logger: logger}
}

// Criteria converts the raw controls into query criteria.
func (p ProfileSearchParams) Criteria() (domain.Criteria, error) {
	decision, err := domain.ParseDecisionFilter(p.Decision)
	if err != nil {
		return domain.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	risk, err := domain.ParseRiskFilter(p.Risk)
	if err != nil {
		return domain.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	key, err := domain.ParseSortKey(p.SortField)
	if err != nil {
		return domain.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	dir, err := domain.ParseSortDirection(p.SortOrder)
	if err != nil {
		return domain.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return domain.Criteria{
		Term:           p.Search,
		Decision:       decision,
		Risk:           risk,
		MinLoanAmount:  p.MinLoanAmount,
		MaxLoanAmount:  p.MaxLoanAmount,
		MinCreditScore: p.MinCreditScore,
		MaxCreditScore: p.MaxCreditScore,
		SortKey:        key,
		SortDirection:  dir,
	}, nil
}

// SearchProfiles filters, sorts and paginates the record store.
func (s *ProfileService) SearchProfiles(ctx context.Context, params ProfileSearchParams) (ProfilesPage, error) {
	criteria, err := params.Criteria()
	if err != nil {
		return ProfilesPage{}, err
	}
	records, err := s.source.All(ctx)
	if err != nil {
		return ProfilesPage{}, fmt.Errorf("load profiles: %w", err)
	}

	matched := query.Search(records, criteria)
	items, meta := query.Paginate(matched, params.Page, params.PageSize)
	s.logger.Debug("profile search",
		"term", criteria.Term,
		"matched", len(matched),
		"page", meta.Page,
	)
	return ProfilesPage{Items: items, Pagination: meta}, nil
}

// GetProfile returns one record by ID.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	id = sanitizeString(id)
	if id == "" {
		return domain.Profile{}, fmt.Errorf("%w: profile id is required", ErrInvalidQuery)
	}
	return s.source.Get(ctx, id)
}

// Summary aggregates the whole record store for the analytics view.
func (s *ProfileService) Summary(ctx context.Context) (domain.Summary, error) {
	records, err := s.source.All(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("load profiles: %w", err)
	}
	return query.Summarize(records), nil
}

// ExportProfiles returns the filtered and sorted records without pagination.
func (s *ProfileService) ExportProfiles(ctx context.Context, params ProfileSearchParams) ([]domain.Profile, error) {
	criteria, err := params.Criteria()
	if err != nil {
		return nil, err
	}
	records, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return query.Search(records, criteria), nil
}
