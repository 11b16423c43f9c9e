package localcart

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"greenville/internal/domain"
	"github.com/google/go-cmp/cmp"
)

type stubCatalog struct {
	product *domain.Product
	err     error
	lastID  string
}

func (s *stubCatalog) Product(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func basilProduct() *domain.Product {
	return &domain.Product{
		ID:         "p1",
		Name:       "Basil",
		PriceCents: 500,
		Stock:      10,
		Variants: []domain.Variant{
			{ID: "v1", Name: "Large pot", PriceCents: 900, Stock: 4},
		},
	}
}

func TestAddItem_NewAndExistingSlot(t *testing.T) {
	store := New(nil, nil, nil)

	if err := store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 2, Product: basilProduct()}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 3, Product: basilProduct()}); err != nil {
		t.Fatalf("add again: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected one slot, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected summed quantity 5, got %d", items[0].Quantity)
	}
	if store.Count() != 5 {
		t.Fatalf("count = %d, want 5", store.Count())
	}
}

func TestAddItem_VariantIsDistinctSlot(t *testing.T) {
	store := New(nil, nil, nil)

	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 1, Product: basilProduct()})
	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 1, VariantID: "v1", Product: basilProduct()})

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("expected two slots, got %d", len(items))
	}
	if items[0].Variant != nil {
		t.Fatalf("first slot should be the base product")
	}
	if items[1].Variant == nil || items[1].Variant.ID != "v1" {
		t.Fatalf("second slot should carry variant v1: %+v", items[1].Variant)
	}
	if items[1].UnitPriceCents != 900 {
		t.Fatalf("variant slot price = %d, want 900", items[1].UnitPriceCents)
	}
}

func TestAddItem_ResolvesThroughCatalog(t *testing.T) {
	catalog := &stubCatalog{product: basilProduct()}
	store := New(catalog, nil, nil)

	if err := store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if catalog.lastID != "p1" {
		t.Fatalf("catalog queried for %q", catalog.lastID)
	}
	if store.Count() != 1 {
		t.Fatalf("count = %d, want 1", store.Count())
	}
}

func TestAddItem_CatalogFailureLeavesCartUntouched(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("catalog down")}
	store := New(catalog, nil, nil)

	var notified int
	store.Subscribe(func(Mutation) { notified++ })

	if err := store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("add should swallow catalog errors, got %v", err)
	}
	if len(store.Items()) != 0 || store.Count() != 0 {
		t.Fatalf("cart should be untouched")
	}
	if notified != 0 {
		t.Fatalf("no mutation should be announced")
	}
}

func TestRemoveItem_TargetsExactSlot(t *testing.T) {
	store := New(nil, nil, nil)
	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 2, Product: basilProduct()})
	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 3, VariantID: "v1", Product: basilProduct()})

	store.RemoveItem("p1", "")

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected one remaining slot, got %d", len(items))
	}
	if items[0].Variant == nil || items[0].Variant.ID != "v1" {
		t.Fatalf("variant slot should survive base-slot removal: %+v", items[0])
	}
	if store.Count() != 3 {
		t.Fatalf("count = %d, want 3", store.Count())
	}
}

func TestUpdateQuantity(t *testing.T) {
	store := New(nil, nil, nil)
	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 2, Product: basilProduct()})

	store.UpdateQuantity("p1", 7, "")

	if got := store.Items()[0].Quantity; got != 7 {
		t.Fatalf("quantity = %d, want 7", got)
	}
	if store.Count() != 7 {
		t.Fatalf("count = %d, want 7", store.Count())
	}

	// Unknown slot leaves everything alone.
	store.UpdateQuantity("missing", 99, "")
	if store.Count() != 7 {
		t.Fatalf("count changed on unknown slot: %d", store.Count())
	}
}

func TestClear_ResetsEverything(t *testing.T) {
	store := New(nil, nil, nil)
	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 2, Product: basilProduct()})
	store.SaveShippingInfo(map[string]string{"city": "Lyon"})
	store.ApplyCoupon("SPRING10")

	store.Clear()

	if len(store.Items()) != 0 || store.Count() != 0 {
		t.Fatalf("items should be gone")
	}
	if len(store.ShippingInfo()) != 0 {
		t.Fatalf("shipping info should be reset")
	}
	if store.Coupon() != "" {
		t.Fatalf("coupon should be reset")
	}
}

func TestReplaceAll_DoesNotNotify(t *testing.T) {
	store := New(nil, nil, nil)

	var mutations []Mutation
	store.Subscribe(func(m Mutation) { mutations = append(mutations, m) })

	store.ReplaceAll([]domain.LineItem{
		{Product: "p1", Name: "Basil", UnitPriceCents: 500, Quantity: 4},
	})

	if len(mutations) != 0 {
		t.Fatalf("replace must stay silent, got %v", mutations)
	}
	if store.Count() != 4 {
		t.Fatalf("count = %d, want 4", store.Count())
	}
}

func TestSubscribe_ReceivesMutationKinds(t *testing.T) {
	store := New(nil, nil, nil)

	var mutations []Mutation
	store.Subscribe(func(m Mutation) { mutations = append(mutations, m) })

	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 1, Product: basilProduct()})
	store.UpdateQuantity("p1", 2, "")
	store.RemoveItem("p1", "")
	store.Clear()

	want := []Mutation{MutationAdd, MutationUpdateQuantity, MutationRemove, MutationClear}
	if diff := cmp.Diff(want, mutations); diff != "" {
		t.Fatalf("mutation sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	persist := NewFilePersister(path)

	store := New(nil, persist, nil)
	_ = store.AddItem(context.Background(), AddInput{ProductID: "p1", Quantity: 2, Product: basilProduct()})
	store.ApplyCoupon("SPRING10")

	restored := New(nil, NewFilePersister(path), nil)
	if err := restored.Hydrate(); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if diff := cmp.Diff(store.Items(), restored.Items()); diff != "" {
		t.Fatalf("items mismatch after restore (-want +got):\n%s", diff)
	}
	if restored.Count() != 2 {
		t.Fatalf("count = %d, want 2", restored.Count())
	}
	if restored.Coupon() != "SPRING10" {
		t.Fatalf("coupon = %q", restored.Coupon())
	}
}

func TestHydrate_NoSnapshotIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	store := New(nil, NewFilePersister(path), nil)

	if err := store.Hydrate(); err != nil {
		t.Fatalf("hydrate on missing file: %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("count = %d, want 0", store.Count())
	}
}
