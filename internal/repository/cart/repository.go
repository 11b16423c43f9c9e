package cart

import (
	"context"

	"greenville/internal/domain"
)

// Repository persists the canonical cart per customer. The stored form is
// the wire entry list; display metadata is re-derived from the catalog on
// read.
type Repository interface {
	// Get returns the stored entries for a customer, empty when the
	// customer has no cart yet.
	Get(ctx context.Context, customerID string) ([]domain.CartEntry, error)
	// Replace overwrites the stored cart wholesale with the given entries.
	Replace(ctx context.Context, customerID string, entries []domain.CartEntry) error
	// Merge reconciles incoming entries into the stored cart under a row
	// lock and returns the persisted merged entries.
	Merge(ctx context.Context, customerID string, entries []domain.CartEntry) ([]domain.CartEntry, error)
}
