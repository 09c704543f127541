package graph

import (
	"context"
	"maps"
	"sync"
)

// MemoryClient is a scripted Client for tests. Results are returned in the
// order they were queued; every executed statement is recorded.
type MemoryClient struct {
	mu           sync.Mutex
	reads        scripted
	writes       scripted
	err          error
	connectivity error
	closed       bool
}

// ExecutedQuery captures a statement and the parameters it ran with.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

type scripted struct {
	calls   []ExecutedQuery
	pending []Result
}

func (s *scripted) next(cypher string, params map[string]any) Result {
	s.calls = append(s.calls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})
	if len(s.pending) == 0 {
		return Result{}
	}
	res := s.pending[0]
	s.pending = s.pending[1:]
	return res
}

// NewMemoryClient returns an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent statement fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError makes VerifyConnectivity fail with err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushReadResult queues a result for the next ExecuteRead.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads.pending = append(m.reads.pending, res)
}

// PushWriteResult queues a result for the next ExecuteWrite.
func (m *MemoryClient) PushWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes.pending = append(m.writes.pending, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Result{}, m.err
	}
	return m.writes.next(cypher, params), nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Result{}, m.err
	}
	return m.reads.next(cypher, params), nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write statements.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writes.calls...)
}

// ReadCalls returns a snapshot of executed read statements.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.reads.calls...)
}
