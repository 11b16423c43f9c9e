package localcart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"greenville/internal/domain"
)

// Mutation identifies the kind of change applied to the store. Subscribers
// receive the kind only; whoever needs the resulting state reads it back
// from the store.
type Mutation string

const (
	MutationAdd            Mutation = "add"
	MutationRemove         Mutation = "remove"
	MutationUpdateQuantity Mutation = "updateQuantity"
	MutationClear          Mutation = "clear"
)

// CatalogLookup resolves a product when an add request arrives without a
// product snapshot in hand.
type CatalogLookup interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// Store holds the in-process cart and applies mutations. It is explicitly
// owned and injected rather than a package-level singleton: construct one,
// Hydrate it from persistence, and pass it to whoever needs it.
type Store struct {
	mu           sync.Mutex
	items        []domain.LineItem
	count        int
	shippingInfo map[string]string
	coupon       string

	catalog CatalogLookup
	persist Persister
	logger  *log.Logger

	subMu sync.Mutex
	subs  []func(Mutation)
}

func New(catalog CatalogLookup, persist Persister, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		catalog:      catalog,
		persist:      persist,
		logger:       logger,
		shippingInfo: map[string]string{},
	}
}

// Subscribe registers a callback invoked after every item mutation. The
// callback runs outside the store lock, on the mutating goroutine.
func (s *Store) Subscribe(fn func(Mutation)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Hydrate loads the persisted snapshot, if any. Call once at startup,
// before subscribers are wired.
func (s *Store) Hydrate() error {
	if s.persist == nil {
		return nil
	}
	snap, err := s.persist.Load()
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.Items
	s.count = domain.CountItems(snap.Items)
	s.coupon = snap.Coupon
	return nil
}

// AddInput describes an add-to-cart request. Product carries a snapshot
// when the caller already has the catalog data in hand; otherwise the
// store resolves it through the catalog lookup.
type AddInput struct {
	ProductID string
	Quantity  int
	VariantID string
	Product   *domain.Product
}

// AddItem increments the matching slot's quantity or appends a new slot.
// A failed catalog resolution is logged and abandons the add without
// surfacing an error: this runs in a fire-and-forget UI context.
func (s *Store) AddItem(ctx context.Context, in AddInput) error {
	if in.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	product := in.Product
	if product == nil {
		if s.catalog == nil {
			s.logger.Printf("cart: add %s: no catalog lookup configured", in.ProductID)
			return nil
		}
		p, err := s.catalog.Product(ctx, in.ProductID)
		if err != nil {
			s.logger.Printf("cart: add %s: resolve product: %v", in.ProductID, err)
			return nil
		}
		product = p
	}

	var variant *domain.Variant
	if in.VariantID != "" {
		variant = product.VariantByID(in.VariantID)
	}
	item := domain.NewLineItem(*product, variant, in.Quantity)

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if domain.SameSlot(s.items[i].Product, s.items[i].Variant, item.Product, item.Variant) {
			s.items[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.recountLocked()
	s.saveLocked()
	s.mu.Unlock()

	s.notify(MutationAdd)
	return nil
}

// RemoveItem deletes the slot matching the identity rule. An empty
// variantID targets the base-product slot only, never variant slots of
// the same product.
func (s *Store) RemoveItem(productID, variantID string) {
	target := variantRef(variantID)

	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if !domain.SameSlot(item.Product, item.Variant, productID, target) {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.recountLocked()
	s.saveLocked()
	s.mu.Unlock()

	s.notify(MutationRemove)
}

// UpdateQuantity sets the quantity on the matching slot; no-op when no
// slot matches. Stock is deliberately not checked here.
func (s *Store) UpdateQuantity(productID string, quantity int, variantID string) {
	target := variantRef(variantID)

	s.mu.Lock()
	for i := range s.items {
		if domain.SameSlot(s.items[i].Product, s.items[i].Variant, productID, target) {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.recountLocked()
	s.saveLocked()
	s.mu.Unlock()

	s.notify(MutationUpdateQuantity)
}

// Clear empties the cart and all auxiliary state, matching a freshly
// initialized store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.count = 0
	s.shippingInfo = map[string]string{}
	s.coupon = ""
	s.saveLocked()
	s.mu.Unlock()

	s.notify(MutationClear)
}

// ReplaceAll overwrites the items wholesale. This is the only path by
// which server data lands in the store, and it does not notify
// subscribers: echoing a server-originated state back at the server is
// exactly what the no-notify rule prevents.
func (s *Store) ReplaceAll(items []domain.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.recountLocked()
	s.saveLocked()
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Entries returns the current items in wire form.
func (s *Store) Entries() []domain.CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.EntriesOf(s.items)
}

// Count returns the derived total item count.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// SaveShippingInfo replaces the cart-scoped shipping details. Opaque to
// synchronization and not persisted across restarts.
func (s *Store) SaveShippingInfo(info map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info == nil {
		info = map[string]string{}
	}
	s.shippingInfo = info
}

// ShippingInfo returns the current shipping details.
func (s *Store) ShippingInfo() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.shippingInfo))
	for k, v := range s.shippingInfo {
		out[k] = v
	}
	return out
}

// ApplyCoupon sets the cart-scoped coupon code.
func (s *Store) ApplyCoupon(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = code
	s.saveLocked()
}

// Coupon returns the applied coupon code, empty when none.
func (s *Store) Coupon() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon
}

func (s *Store) recountLocked() {
	s.count = domain.CountItems(s.items)
}

func (s *Store) saveLocked() {
	if s.persist == nil {
		return
	}
	snap := Snapshot{
		Items:  append([]domain.LineItem(nil), s.items...),
		Count:  s.count,
		Coupon: s.coupon,
	}
	if err := s.persist.Save(snap); err != nil {
		s.logger.Printf("cart: persist: %v", err)
	}
}

func (s *Store) notify(m Mutation) {
	s.subMu.Lock()
	subs := append(([]func(Mutation))(nil), s.subs...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(m)
	}
}

func variantRef(variantID string) *domain.Variant {
	if variantID == "" {
		return nil
	}
	return &domain.Variant{ID: variantID}
}
