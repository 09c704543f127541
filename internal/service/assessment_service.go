package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vanshika/creditbridge/backend/internal/assessment"
	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/handoff"
	"github.com/vanshika/creditbridge/backend/internal/logging"
)

// AssessmentView is a session state plus the required fields still blank.
type AssessmentView struct {
	assessment.State
	Missing []string
}

// AssessmentOutcome is what the results page loads after a submit.
type AssessmentOutcome struct {
	Result domain.AssessmentResult
	View   domain.ResultView
}

// AssessmentService drives intake form sessions for the HTTP API.
type AssessmentService struct {
	registry *assessment.Registry
	scorer   assessment.Scorer
	mailbox  handoff.Mailbox
	logger   *slog.Logger
}

// NewAssessmentService wires the session registry to a scorer and a result mailbox.
func NewAssessmentService(registry *assessment.Registry, scorer assessment.Scorer, mailbox handoff.Mailbox, logger *slog.Logger) *AssessmentService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AssessmentService{
		registry: registry,
		scorer:   scorer,
		mailbox:  mailbox,
		logger:   logger,
	}
}

// Create opens a session on the first step.
func (s *AssessmentService) Create() AssessmentView {
	session := s.registry.Create()
	s.logger.Debug("assessment session opened", "sessionId", session.ID())
	return viewOf(session)
}

// Get returns the current state of a session.
func (s *AssessmentService) Get(id string) (AssessmentView, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return AssessmentView{}, err
	}
	return viewOf(session), nil
}

// Discard closes a session without submitting it.
func (s *AssessmentService) Discard(id string) error {
	if _, err := s.registry.Get(id); err != nil {
		return err
	}
	s.registry.Delete(id)
	return nil
}

// SetFields stores a batch of form values.
func (s *AssessmentService) SetFields(id string, values map[string]domain.FieldValue) (AssessmentView, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return AssessmentView{}, err
	}
	if err := session.SetFields(values); err != nil {
		return viewOf(session), err
	}
	return viewOf(session), nil
}

// Next advances a session one step.
func (s *AssessmentService) Next(id string) (AssessmentView, error) {
	return s.navigate(id, (*assessment.Session).Next)
}

// Previous moves a session back one step.
func (s *AssessmentService) Previous(id string) (AssessmentView, error) {
	return s.navigate(id, (*assessment.Session).Previous)
}

func (s *AssessmentService) navigate(id string, move func(*assessment.Session) (assessment.State, error)) (AssessmentView, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return AssessmentView{}, err
	}
	if _, err := move(session); err != nil {
		return viewOf(session), err
	}
	return viewOf(session), nil
}

// Submit scores a session that reached the final step. On failure the
// returned view carries the error text and the step is unchanged.
func (s *AssessmentService) Submit(ctx context.Context, id string) (AssessmentView, error) {
	session, err := s.registry.Get(id)
	if err != nil {
		return AssessmentView{}, err
	}

	start := time.Now()
	state, err := session.Submit(ctx, s.scorer, s.mailbox)
	if err != nil {
		s.logger.Warn("assessment submit failed", "sessionId", id, "error", err)
		return withMissing(state, session), err
	}
	// the form is done once its result is handed off; only the mailbox slot remains
	s.registry.Delete(id)
	s.logger.Info("assessment submitted",
		"sessionId", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return withMissing(state, session), nil
}

// Progress reports the processing animation for an open session or for a
// submitted one whose result has not been read yet.
func (s *AssessmentService) Progress(ctx context.Context, id string, elapsed time.Duration) (assessment.ProgressReport, error) {
	if _, err := s.registry.Get(id); err != nil {
		pending, perr := s.mailbox.Pending(ctx, handoff.KeyFor(id))
		if perr != nil {
			return assessment.ProgressReport{}, fmt.Errorf("check assessment result: %w", perr)
		}
		if !pending {
			return assessment.ProgressReport{}, err
		}
	}
	return assessment.Progress(elapsed), nil
}

// Result reads the handed-off result for a session. The slot is emptied by the read.
func (s *AssessmentService) Result(ctx context.Context, id string) (AssessmentOutcome, error) {
	result, err := s.mailbox.Take(ctx, handoff.KeyFor(id))
	if err != nil {
		return AssessmentOutcome{}, fmt.Errorf("load assessment result: %w", err)
	}
	return AssessmentOutcome{
		Result: result,
		View:   assessment.BuildResultView(result),
	}, nil
}

func viewOf(session *assessment.Session) AssessmentView {
	return withMissing(session.State(), session)
}

func withMissing(state assessment.State, session *assessment.Session) AssessmentView {
	return AssessmentView{State: state, Missing: session.MissingRequired()}
}
