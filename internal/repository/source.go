package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// ProfileSource is the read-only record store consumed by the query layer.
type ProfileSource interface {
	All(ctx context.Context) ([]domain.Profile, error)
	Get(ctx context.Context, id string) (domain.Profile, error)
}

var (
	// ErrProfileNotFound is returned when a profile ID is not in the store.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrDuplicateID is returned when a record set repeats an identifier.
	ErrDuplicateID = errors.New("duplicate profile id")
)

// emailFor derives the fixture address "first.last@email.com" from a full name.
func emailFor(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	return strings.Join(parts, ".") + "@email.com"
}
