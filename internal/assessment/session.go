package assessment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/handoff"
)

var (
	ErrNotFinalStep    = errors.New("submit is only available on the final step")
	ErrUnknownField    = errors.New("unknown form field")
	ErrFieldKind       = errors.New("form field has the wrong value kind")
	ErrSessionClosed   = errors.New("assessment already submitted")
	ErrSessionBusy     = errors.New("assessment submission in progress")
	ErrSessionNotFound = errors.New("assessment session not found")
)

// Scorer returns a prediction for a feature payload.
type Scorer interface {
	Predict(ctx context.Context, req domain.ScoringRequest) (domain.ScoringResponse, error)
}

// State is a point-in-time copy of a Session.
type State struct {
	ID        string
	Step      Step
	Fields    map[string]domain.FieldValue
	Loading   bool
	Error     string
	Submitted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is one applicant's pass through the intake form.
type Session struct {
	mu        sync.Mutex
	id        string
	step      Step
	fields    map[string]domain.FieldValue
	loading   bool
	lastErr   string
	submitted bool
	createdAt time.Time
	touched   time.Time
	nowFn     func() time.Time
}

// NewSession starts a session on the first step with every field blank.
func NewSession() *Session {
	return newSession(uuid.NewString(), time.Now)
}

func newSession(id string, nowFn func() time.Time) *Session {
	now := nowFn()
	return &Session{
		id:        id,
		step:      FirstStep,
		fields:    blankFields(),
		createdAt: now,
		touched:   now,
		nowFn:     nowFn,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns a copy of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		ID:        s.id,
		Step:      s.step,
		Fields:    maps.Clone(s.fields),
		Loading:   s.loading,
		Error:     s.lastErr,
		Submitted: s.submitted,
		CreatedAt: s.createdAt,
		UpdatedAt: s.touched,
	}
}

// Next advances one step, staying on the last step.
func (s *Session) Next() (State, error) {
	return s.move(1)
}

// Previous goes back one step, staying on the first step.
func (s *Session) Previous() (State, error) {
	return s.move(-1)
}

func (s *Session) move(delta Step) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return s.stateLocked(), err
	}
	next := s.step + delta
	if next < FirstStep {
		next = FirstStep
	}
	if next > LastStep {
		next = LastStep
	}
	s.step = next
	s.touched = s.nowFn()
	return s.stateLocked(), nil
}

// SetField stores one form value. The step never changes.
func (s *Session) SetField(name string, value domain.FieldValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return err
	}
	if err := checkField(name, value); err != nil {
		return err
	}
	s.fields[name] = value
	s.touched = s.nowFn()
	return nil
}

// SetFields applies a batch of values. Nothing is stored if any value is rejected.
func (s *Session) SetFields(values map[string]domain.FieldValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return err
	}
	for name, value := range values {
		if err := checkField(name, value); err != nil {
			return err
		}
	}
	for name, value := range values {
		s.fields[name] = value
	}
	s.touched = s.nowFn()
	return nil
}

func checkField(name string, value domain.FieldValue) error {
	kind, ok := KindOf(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if kind != value.Kind {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrFieldKind, name, kind, value.Kind)
	}
	return nil
}

func (s *Session) writableLocked() error {
	if s.submitted {
		return ErrSessionClosed
	}
	if s.loading {
		return ErrSessionBusy
	}
	return nil
}

// MissingRequired lists required fields that are still blank, in form order.
func (s *Session) MissingRequired() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return missingRequired(s.fields)
}

func missingRequired(fields map[string]domain.FieldValue) []string {
	var missing []string
	for _, step := range Steps() {
		for _, f := range step.Fields() {
			if IsRequired(f) && fields[f].Kind == domain.FieldText && fields[f].Text == "" {
				missing = append(missing, f)
			}
		}
	}
	return missing
}

// Submit scores the form and leaves the result in the mailbox under
// handoff.KeyFor(session ID). A failed call records the error, keeps the step
// and is not retried.
func (s *Session) Submit(ctx context.Context, scorer Scorer, mailbox handoff.Mailbox) (State, error) {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, err
	}
	if s.step != LastStep {
		st := s.stateLocked()
		s.mu.Unlock()
		return st, ErrNotFinalStep
	}
	s.loading = true
	s.lastErr = ""
	fields := maps.Clone(s.fields)
	s.mu.Unlock()

	req := BuildScoringRequest(fields)
	resp, err := scorer.Predict(ctx, req)
	if err == nil {
		err = mailbox.Put(ctx, handoff.KeyFor(s.id), domain.AssessmentResult{
			SessionID: s.id,
			Fields:    fields,
			Request:   req,
			Response:  resp,
		})
		if err != nil {
			err = fmt.Errorf("store assessment result: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.touched = s.nowFn()
	if err != nil {
		s.lastErr = err.Error()
		return s.stateLocked(), err
	}
	s.submitted = true
	return s.stateLocked(), nil
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
