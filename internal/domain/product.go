package domain

import "time"

// Product is a catalog product. Prices are integer cents.
type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	PriceCents         int64     `json:"priceCents"`
	DiscountPriceCents int64     `json:"discountPriceCents,omitempty"`
	OnSale             bool      `json:"onSale"`
	Stock              int       `json:"stock"`
	Option             string    `json:"option,omitempty"`
	Images             []string  `json:"images,omitempty"`
	SubcategoryID      string    `json:"subcategory,omitempty"`
	Variants           []Variant `json:"variants,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// VariantByID returns the product's variant with the given id, or nil.
func (p Product) VariantByID(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			v := p.Variants[i]
			return &v
		}
	}
	return nil
}

// NewLineItem builds the line item snapshot for a product, an optional
// selected variant and a quantity. The unit price is the variant price when
// a variant is selected, the discount price when the product is on sale,
// otherwise the base price. The discount price is kept as display metadata
// only when it does not already drive the unit price.
func NewLineItem(p Product, v *Variant, quantity int) LineItem {
	price := p.PriceCents
	stock := p.Stock
	var displayDiscount int64

	switch {
	case v != nil:
		price = v.PriceCents
		stock = v.Stock
	case p.OnSale:
		if p.DiscountPriceCents > 0 {
			price = p.DiscountPriceCents
		}
	default:
		displayDiscount = p.DiscountPriceCents
	}

	return LineItem{
		Product:            p.ID,
		Name:               p.Name,
		UnitPriceCents:     price,
		DiscountPriceCents: displayDiscount,
		OnSale:             p.OnSale,
		Option:             p.Option,
		Images:             p.Images,
		Stock:              stock,
		Quantity:           quantity,
		SubcategoryID:      p.SubcategoryID,
		Variant:            v,
	}
}
