// Package handoff carries an assessment result from the submit step to the
// results view. Each key is a single slot: Put overwrites it and Take empties it.
package handoff

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// ResultKey is the fixed slot name for assessment results.
const ResultKey = "assessmentResult"

// ErrEmpty is returned by Take when nothing is waiting in the slot.
var ErrEmpty = errors.New("no assessment result available")

// Mailbox is a keyed set of single-slot mailboxes.
type Mailbox interface {
	Put(ctx context.Context, key string, result domain.AssessmentResult) error
	Take(ctx context.Context, key string) (domain.AssessmentResult, error)
	// Pending reports whether a result is waiting without consuming it.
	Pending(ctx context.Context, key string) (bool, error)
}

// KeyFor namespaces the result slot by form session.
func KeyFor(sessionID string) string {
	if sessionID == "" {
		return ResultKey
	}
	return ResultKey + ":" + sessionID
}

// MemoryMailbox keeps slots in process memory.
type MemoryMailbox struct {
	mu    sync.Mutex
	slots map[string]domain.AssessmentResult
}

// NewMemoryMailbox returns an empty MemoryMailbox.
func NewMemoryMailbox() *MemoryMailbox {
	return &MemoryMailbox{slots: make(map[string]domain.AssessmentResult)}
}

func (m *MemoryMailbox) Put(_ context.Context, key string, result domain.AssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = result
	return nil
}

func (m *MemoryMailbox) Take(_ context.Context, key string) (domain.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.slots[key]
	if !ok {
		return domain.AssessmentResult{}, ErrEmpty
	}
	delete(m.slots, key)
	return result, nil
}

func (m *MemoryMailbox) Pending(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[key]
	return ok, nil
}
