package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanshika/creditbridge/backend/internal/assessment"
	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/handoff"
)

type stubScorer struct {
	resp domain.ScoringResponse
	err  error
	last domain.ScoringRequest
}

func (s *stubScorer) Predict(_ context.Context, req domain.ScoringRequest) (domain.ScoringResponse, error) {
	s.last = req
	return s.resp, s.err
}

func newAssessmentService(scorer assessment.Scorer) (*AssessmentService, *handoff.MemoryMailbox) {
	mailbox := handoff.NewMemoryMailbox()
	return NewAssessmentService(assessment.NewRegistry(time.Hour), scorer, mailbox, nil), mailbox
}

func advanceToLastStep(t *testing.T, svc *AssessmentService, id string) {
	t.Helper()
	for i := 0; i < 5; i++ {
		if _, err := svc.Next(id); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
}

func TestAssessmentService_Lifecycle(t *testing.T) {
	scorer := &stubScorer{resp: domain.ScoringResponse{Prediction: 1, ApprovalProbability: 0.76}}
	svc, _ := newAssessmentService(scorer)
	ctx := context.Background()

	view := svc.Create()
	if view.Step != assessment.StepPersonal {
		t.Fatalf("expected first step, got %d", view.Step)
	}
	if len(view.Missing) != len(assessment.RequiredFields) {
		t.Fatalf("expected every required field missing, got %v", view.Missing)
	}

	view, err := svc.SetFields(view.ID, map[string]domain.FieldValue{
		"fullName":       domain.Text("Sneha Reddy"),
		"cibilScore":     domain.Text("750"),
		"averageBalance": domain.Text("25000"),
		"travelPattern":  domain.Text("frequent"),
	})
	if err != nil {
		t.Fatalf("set fields: %v", err)
	}
	if len(view.Missing) != len(assessment.RequiredFields)-2 {
		t.Fatalf("expected two required fields filled, missing %v", view.Missing)
	}

	if _, err := svc.Submit(ctx, view.ID); !errors.Is(err, assessment.ErrNotFinalStep) {
		t.Fatalf("expected ErrNotFinalStep, got %v", err)
	}

	advanceToLastStep(t, svc, view.ID)
	view, err = svc.Submit(ctx, view.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !view.Submitted {
		t.Fatalf("expected submitted session")
	}
	if scorer.last.CibilScore != 750 || scorer.last.GeographicalMovement != 0.9 {
		t.Fatalf("unexpected payload %+v", scorer.last)
	}
	if _, err := svc.Get(view.ID); !errors.Is(err, assessment.ErrSessionNotFound) {
		t.Fatalf("expected the session to be destroyed after submit, got %v", err)
	}
	report, err := svc.Progress(ctx, view.ID, assessment.TotalProcessingTime())
	if err != nil || !report.Done {
		t.Fatalf("expected progress while the result is pending, got %+v (%v)", report, err)
	}

	outcome, err := svc.Result(ctx, view.ID)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if outcome.View.Decision != domain.DecisionApproved || outcome.View.RiskLevel != domain.RiskLow {
		t.Fatalf("unexpected view %+v", outcome.View)
	}
	if outcome.View.ApplicantName != "Sneha Reddy" {
		t.Fatalf("expected applicant name echoed, got %q", outcome.View.ApplicantName)
	}

	if _, err := svc.Result(ctx, view.ID); !errors.Is(err, handoff.ErrEmpty) {
		t.Fatalf("expected ErrEmpty on second read, got %v", err)
	}
	if _, err := svc.Progress(ctx, view.ID, time.Second); !errors.Is(err, assessment.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound once the result was read, got %v", err)
	}
}

func TestAssessmentService_SubmitFailure(t *testing.T) {
	scorer := &stubScorer{err: errors.New("failed to get prediction from the model")}
	svc, mailbox := newAssessmentService(scorer)
	ctx := context.Background()

	view := svc.Create()
	advanceToLastStep(t, svc, view.ID)

	view, err := svc.Submit(ctx, view.ID)
	if err == nil {
		t.Fatalf("expected submit error")
	}
	if view.Step != assessment.StepSocialDocs {
		t.Fatalf("expected step unchanged, got %d", view.Step)
	}
	if view.Error == "" {
		t.Fatalf("expected error text on the session")
	}
	if _, err := mailbox.Take(ctx, handoff.KeyFor(view.ID)); !errors.Is(err, handoff.ErrEmpty) {
		t.Fatalf("expected empty mailbox, got %v", err)
	}
	if _, err := svc.Get(view.ID); err != nil {
		t.Fatalf("expected the session to stay open after a failed submit, got %v", err)
	}
}

func TestAssessmentService_UnknownSession(t *testing.T) {
	svc, _ := newAssessmentService(&stubScorer{})

	if _, err := svc.Get("nope"); !errors.Is(err, assessment.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Next("nope"); !errors.Is(err, assessment.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Progress(context.Background(), "nope", time.Second); !errors.Is(err, assessment.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAssessmentService_Navigation(t *testing.T) {
	svc, _ := newAssessmentService(&stubScorer{})
	view := svc.Create()

	view, err := svc.Previous(view.ID)
	if err != nil || view.Step != assessment.StepPersonal {
		t.Fatalf("expected to stay on first step, got %d (%v)", view.Step, err)
	}
	view, err = svc.Next(view.ID)
	if err != nil || view.Step != assessment.StepBanking {
		t.Fatalf("expected banking step, got %d (%v)", view.Step, err)
	}

	if _, err := svc.SetFields(view.ID, map[string]domain.FieldValue{"shoeSize": domain.Text("9")}); !errors.Is(err, assessment.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	report, err := svc.Progress(context.Background(), view.ID, 5*time.Second)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if report.Stages[1].Status != assessment.StageCompleted || report.Stages[2].Status != assessment.StageProcessing {
		t.Fatalf("unexpected stages %+v", report.Stages)
	}
}
