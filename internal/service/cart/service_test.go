package cart

import (
	"context"
	"errors"
	"testing"

	"greenville/internal/domain"
	"github.com/google/go-cmp/cmp"
)

type stubRepo struct {
	entries        []domain.CartEntry
	getErr         error
	replaceErr     error
	mergeResult    []domain.CartEntry
	mergeErr       error
	lastCustomerID string
	lastReplaced   []domain.CartEntry
	lastMerged     []domain.CartEntry
}

func (s *stubRepo) Get(_ context.Context, customerID string) ([]domain.CartEntry, error) {
	s.lastCustomerID = customerID
	return s.entries, s.getErr
}

func (s *stubRepo) Replace(_ context.Context, customerID string, entries []domain.CartEntry) error {
	s.lastCustomerID = customerID
	s.lastReplaced = entries
	return s.replaceErr
}

func (s *stubRepo) Merge(_ context.Context, customerID string, entries []domain.CartEntry) ([]domain.CartEntry, error) {
	s.lastCustomerID = customerID
	s.lastMerged = entries
	return s.mergeResult, s.mergeErr
}

type stubProductRepo struct {
	products map[string]*domain.Product
	err      error
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func TestItemsPopulatesFromCatalog(t *testing.T) {
	repo := &stubRepo{entries: []domain.CartEntry{
		{Product: "p1", Quantity: 2},
		{Product: "p2", Quantity: 1, Variant: &domain.Variant{ID: "v1", PriceCents: 700, Stock: 3}},
	}}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Basil", PriceCents: 500, Stock: 10},
		"p2": {ID: "p2", Name: "Mint", PriceCents: 300, Stock: 8},
	}}
	svc := New(repo, products, nil)

	got, err := svc.Items(context.Background(), "cust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.LineItem{
		{Product: "p1", Name: "Basil", UnitPriceCents: 500, Stock: 10, Quantity: 2},
		{Product: "p2", Name: "Mint", UnitPriceCents: 700, Stock: 3, Quantity: 1, Variant: &domain.Variant{ID: "v1", PriceCents: 700, Stock: 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if repo.lastCustomerID != "cust" {
		t.Fatalf("unexpected customer id %q", repo.lastCustomerID)
	}
}

func TestItemsSkipsDeletedProducts(t *testing.T) {
	repo := &stubRepo{entries: []domain.CartEntry{
		{Product: "gone", Quantity: 5},
		{Product: "p1", Quantity: 1},
	}}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Basil", PriceCents: 500},
	}}
	svc := New(repo, products, nil)

	got, err := svc.Items(context.Background(), "cust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Product != "p1" {
		t.Fatalf("expected only p1, got %+v", got)
	}
}

func TestItemsEmptyCart(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{}, nil)
	got, err := svc.Items(context.Background(), "cust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty items, got %+v", got)
	}
}

func TestSyncReplacesWholesale(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, &stubProductRepo{}, nil)

	entries := []domain.CartEntry{{Product: "p1", Quantity: 2}}
	if err := svc.Sync(context.Background(), "cust", entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(entries, repo.lastReplaced); diff != "" {
		t.Fatalf("replace payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncValidation(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{}, nil)

	err := svc.Sync(context.Background(), "cust", []domain.CartEntry{{Product: "  ", Quantity: 1}})
	if err == nil || err.Error() != "product required" {
		t.Fatalf("expected product error, got %v", err)
	}

	err = svc.Sync(context.Background(), "cust", []domain.CartEntry{{Product: "p1", Quantity: 0}})
	if err == nil || err.Error() != "quantity must be positive" {
		t.Fatalf("expected quantity error, got %v", err)
	}
}

func TestMergeReturnsPopulatedResult(t *testing.T) {
	repo := &stubRepo{mergeResult: []domain.CartEntry{{Product: "p1", Quantity: 3}}}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Basil", PriceCents: 500, Stock: 10},
	}}
	svc := New(repo, products, nil)

	got, err := svc.Merge(context.Background(), "cust", []domain.CartEntry{{Product: "p1", Quantity: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 3 || got[0].Name != "Basil" {
		t.Fatalf("unexpected merge result: %+v", got)
	}
	if len(repo.lastMerged) != 1 || repo.lastMerged[0].Product != "p1" {
		t.Fatalf("merge not called as expected: %+v", repo.lastMerged)
	}
}

func TestMergeRepoError(t *testing.T) {
	repo := &stubRepo{mergeErr: errors.New("boom")}
	svc := New(repo, &stubProductRepo{}, nil)
	_, err := svc.Merge(context.Background(), "cust", []domain.CartEntry{{Product: "p1", Quantity: 1}})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}
