package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// TaskError accumulates the per-record failures of a bulk run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%d records failed: %s", len(e.Errors), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// ProfileWriter persists one profile at a fixed position of the record store.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p domain.Profile, seq int) error
}

// BulkIngestor loads profile fixtures into a store using a worker pool.
type BulkIngestor struct {
	writer  ProfileWriter
	workers int
}

// NewBulkIngestor creates a BulkIngestor with the provided concurrency.
func NewBulkIngestor(writer ProfileWriter, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		writer:  writer,
		workers: workers,
	}
}

// IngestProfiles normalizes and writes profiles concurrently. Each profile
// keeps its input index as its sequence so the store preserves file order.
func (bi *BulkIngestor) IngestProfiles(ctx context.Context, profiles []domain.Profile) error {
	return bi.run(ctx, len(profiles), func(idx int) error {
		p := normalizeProfile(profiles[idx])
		if err := bi.writer.UpsertProfile(ctx, p, idx); err != nil {
			return fmt.Errorf("profile %q (row %d): %w", p.ID, idx+1, err)
		}
		return nil
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

	cancelled := false
Loop:
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case indexCh <- i:
		case <-ctx.Done():
			cancelled = true
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if cancelled {
		return ctx.Err()
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
