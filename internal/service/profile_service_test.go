package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/repository"
)

type stubSource struct {
	profiles []domain.Profile
	allErr   error
}

func (s *stubSource) All(context.Context) ([]domain.Profile, error) {
	if s.allErr != nil {
		return nil, s.allErr
	}
	return s.profiles, nil
}

func (s *stubSource) Get(_ context.Context, id string) (domain.Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Profile{}, repository.ErrProfileNotFound
}

func newFixtureService() *ProfileService {
	return NewProfileService(repository.MustFixtureSource(repository.DefaultProfiles()), nil)
}

func TestProfileService_SearchProfiles(t *testing.T) {
	svc := newFixtureService()

	page, err := svc.SearchProfiles(context.Background(), ProfileSearchParams{
		Decision:  "Approved",
		Risk:      "all",
		SortField: "creditScore",
		SortOrder: "desc",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Pagination.Page != 1 {
		t.Fatalf("expected page to default to 1, got %d", page.Pagination.Page)
	}
	if page.Pagination.TotalItems != 4 {
		t.Fatalf("expected 4 approved profiles, got %d", page.Pagination.TotalItems)
	}
	want := []string{"CR008", "CR001", "CR004", "CR002"}
	for i, p := range page.Items {
		if p.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], p.ID)
		}
	}
}

func TestProfileService_SearchProfilesPaginates(t *testing.T) {
	svc := newFixtureService()

	page, err := svc.SearchProfiles(context.Background(), ProfileSearchParams{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Pagination.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.Pagination.TotalPages)
	}
	if len(page.Items) != 3 || page.Items[0].ID != "CR004" {
		t.Fatalf("unexpected second page %+v", page.Items)
	}
}

func TestProfileService_SearchProfilesRanges(t *testing.T) {
	svc := newFixtureService()
	minLoan := decimal.NewFromInt(500000)
	minScore := 700

	page, err := svc.SearchProfiles(context.Background(), ProfileSearchParams{
		MinLoanAmount:  &minLoan,
		MinCreditScore: &minScore,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, p := range page.Items {
		if p.LoanAmount.LessThan(minLoan) || p.CreditScore < minScore {
			t.Fatalf("profile %s escaped the range filter", p.ID)
		}
	}
}

func TestProfileService_InvalidQuery(t *testing.T) {
	svc := newFixtureService()
	cases := []ProfileSearchParams{
		{Decision: "maybe"},
		{Risk: "extreme"},
		{SortField: "salary"},
		{SortOrder: "sideways"},
	}
	for _, params := range cases {
		_, err := svc.SearchProfiles(context.Background(), params)
		if !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery for %+v, got %v", params, err)
		}
	}
}

func TestProfileService_SourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewProfileService(&stubSource{allErr: boom}, nil)

	if _, err := svc.SearchProfiles(context.Background(), ProfileSearchParams{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if _, err := svc.Summary(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestProfileService_GetProfile(t *testing.T) {
	svc := NewProfileService(&stubSource{profiles: repository.CoreProfiles()}, nil)

	p, err := svc.GetProfile(context.Background(), " CR003 ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name != "Amit Patel" {
		t.Fatalf("expected Amit Patel, got %s", p.Name)
	}

	if _, err := svc.GetProfile(context.Background(), "CR999"); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.GetProfile(context.Background(), "  "); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestProfileService_SummaryAndExport(t *testing.T) {
	svc := newFixtureService()

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Total != 8 {
		t.Fatalf("expected 8 profiles, got %d", summary.Total)
	}

	exported, err := svc.ExportProfiles(context.Background(), ProfileSearchParams{Search: "patel"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(exported) != 1 || exported[0].ID != "CR003" {
		t.Fatalf("unexpected export %+v", exported)
	}
}

type stubWriter struct {
	mu      sync.Mutex
	written map[int]domain.Profile
	failIDs map[string]bool
}

func (s *stubWriter) UpsertProfile(_ context.Context, p domain.Profile, seq int) error {
	if s.failIDs[p.ID] {
		return errors.New("boom")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.written == nil {
		s.written = make(map[int]domain.Profile)
	}
	s.written[seq] = p
	return nil
}

func TestBulkIngestor_IngestProfiles(t *testing.T) {
	writer := &stubWriter{}
	ingestor := NewBulkIngestor(writer, 3)

	profiles := repository.DefaultProfiles()
	profiles[0].Email = "  Rajesh.Kumar@Email.com "
	profiles[0].Name = " Rajesh   Kumar "

	if err := ingestor.IngestProfiles(context.Background(), profiles); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(writer.written) != len(profiles) {
		t.Fatalf("expected %d writes, got %d", len(profiles), len(writer.written))
	}
	for i, p := range profiles {
		if writer.written[i].ID != p.ID {
			t.Fatalf("seq %d: expected %s, got %s", i, p.ID, writer.written[i].ID)
		}
	}
	first := writer.written[0]
	if first.Email != "rajesh.kumar@email.com" || first.Name != "Rajesh Kumar" {
		t.Fatalf("expected normalized identity fields, got %q %q", first.Name, first.Email)
	}
}

func TestBulkIngestorAggregatesErrors(t *testing.T) {
	writer := &stubWriter{failIDs: map[string]bool{"CR002": true, "CR005": true}}
	ingestor := NewBulkIngestor(writer, 2)

	err := ingestor.IngestProfiles(context.Background(), repository.DefaultProfiles())
	if err == nil {
		t.Fatalf("expected aggregated error, got nil")
	}
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError type, got %T", err)
	}
	if len(taskErr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(taskErr.Errors))
	}
}

func TestBulkIngestorStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewBulkIngestor(&stubWriter{}, 1).IngestProfiles(ctx, repository.DefaultProfiles())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBulkIngestorEmpty(t *testing.T) {
	if err := NewBulkIngestor(nil, 0).IngestProfiles(context.Background(), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
