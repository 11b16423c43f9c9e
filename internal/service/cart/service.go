package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"greenville/internal/domain"
)

// Service implements the server side of the cart synchronization protocol:
// fetch returns the populated stored cart, sync replaces it wholesale, merge
// reconciles incoming entries into it.
type Service struct {
	repo     cartRepo
	products productRepo
	logger   *log.Logger
}

type cartRepo interface {
	Get(ctx context.Context, customerID string) ([]domain.CartEntry, error)
	Replace(ctx context.Context, customerID string, entries []domain.CartEntry) error
	Merge(ctx context.Context, customerID string, entries []domain.CartEntry) ([]domain.CartEntry, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, products productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, logger: logger}
}

// Items returns the customer's stored cart with display metadata populated
// from the current catalog. Customers without a cart get an empty list.
func (s *Service) Items(ctx context.Context, customerID string) ([]domain.LineItem, error) {
	entries, err := s.repo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, entries)
}

// Sync overwrites the customer's stored cart with the given entries.
// Replace-all semantics: the incoming list is the new canonical cart.
func (s *Service) Sync(ctx context.Context, customerID string, entries []domain.CartEntry) error {
	cleaned, err := sanitizeEntries(entries)
	if err != nil {
		return err
	}
	return s.repo.Replace(ctx, customerID, cleaned)
}

// Merge reconciles incoming entries into the customer's stored cart per the
// slot identity rule, summing quantities for slots present on both sides,
// and returns the populated merged result.
func (s *Service) Merge(ctx context.Context, customerID string, entries []domain.CartEntry) ([]domain.LineItem, error) {
	cleaned, err := sanitizeEntries(entries)
	if err != nil {
		return nil, err
	}
	merged, err := s.repo.Merge(ctx, customerID, cleaned)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, merged)
}

// populate expands stored entries into full line items, pricing each against
// the current catalog. Entries whose product no longer exists are skipped.
func (s *Service) populate(ctx context.Context, entries []domain.CartEntry) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(entries))
	for _, e := range entries {
		p, err := s.products.GetByID(ctx, e.Product)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Printf("cart service: skipping entry for missing product %s", e.Product)
				continue
			}
			return nil, err
		}
		items = append(items, domain.NewLineItem(*p, e.Variant, e.Quantity))
	}
	return items, nil
}

func sanitizeEntries(entries []domain.CartEntry) ([]domain.CartEntry, error) {
	cleaned := make([]domain.CartEntry, 0, len(entries))
	for _, e := range entries {
		e.Product = strings.TrimSpace(e.Product)
		if e.Product == "" {
			return nil, errors.New("product required")
		}
		if e.Quantity <= 0 {
			return nil, errors.New("quantity must be positive")
		}
		cleaned = append(cleaned, e)
	}
	return cleaned, nil
}
