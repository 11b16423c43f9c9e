package domain

// Variant is the snapshot of a selected product variant carried on a line
// item. It is stored verbatim on the server and on the wire so a cart
// survives later catalog edits.
type Variant struct {
	ID         string `json:"_id"`
	Name       string `json:"name,omitempty"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

// CartEntry is the wire and storage form of one cart slot: just enough to
// re-populate the full line item from the catalog. Display metadata never
// travels in this form.
type CartEntry struct {
	Product  string   `json:"product"`
	Quantity int      `json:"quantity"`
	Variant  *Variant `json:"variant"`
}

// LineItem is one slot of a cart as the UI consumes it, including the
// denormalized display metadata captured at add time so rendering does not
// need a second catalog fetch.
type LineItem struct {
	Product            string   `json:"product"`
	Name               string   `json:"name"`
	UnitPriceCents     int64    `json:"priceCents"`
	DiscountPriceCents int64    `json:"discountPriceCents,omitempty"`
	OnSale             bool     `json:"onSale"`
	Option             string   `json:"option,omitempty"`
	Images             []string `json:"image,omitempty"`
	Stock              int      `json:"stock"`
	Quantity           int      `json:"quantity"`
	SubcategoryID      string   `json:"subcategory,omitempty"`
	Variant            *Variant `json:"variant"`
}

// Entry strips a line item down to its wire form.
func (li LineItem) Entry() CartEntry {
	return CartEntry{
		Product:  li.Product,
		Quantity: li.Quantity,
		Variant:  li.Variant,
	}
}

// SameSlot reports whether two (product, variant) pairs identify the same
// cart slot: products equal, and either both variants absent or both variant
// IDs equal. A base-product slot and a variant slot of the same product are
// distinct.
func SameSlot(productA string, variantA *Variant, productB string, variantB *Variant) bool {
	if productA != productB {
		return false
	}
	if variantA == nil || variantB == nil {
		return variantA == nil && variantB == nil
	}
	return variantA.ID == variantB.ID
}

// MergeEntries reconciles a stored cart with incoming entries. Slots present
// on both sides sum their quantities; slots present on one side only are
// carried over as-is. Stored order is preserved, incoming-only slots are
// appended in incoming order.
func MergeEntries(stored, incoming []CartEntry) []CartEntry {
	merged := make([]CartEntry, len(stored))
	copy(merged, stored)

	for _, in := range incoming {
		found := false
		for i := range merged {
			if SameSlot(merged[i].Product, merged[i].Variant, in.Product, in.Variant) {
				merged[i].Quantity += in.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}
	return merged
}

// CountEntries returns the total quantity across all entries.
func CountEntries(entries []CartEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

// CountItems returns the total quantity across all line items.
func CountItems(items []LineItem) int {
	total := 0
	for _, li := range items {
		total += li.Quantity
	}
	return total
}

// EntriesOf strips a list of line items down to wire form.
func EntriesOf(items []LineItem) []CartEntry {
	entries := make([]CartEntry, 0, len(items))
	for _, li := range items {
		entries = append(entries, li.Entry())
	}
	return entries
}
