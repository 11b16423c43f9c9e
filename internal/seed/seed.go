package seed

import (
	"context"
	"fmt"

	"greenville/internal/domain"
	productrepo "greenville/internal/repository/product"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts demo catalog data for manual testing. Fixed ids keep it
// idempotent: re-running updates the same rows.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := productrepo.NewPostgres(pool, nil)

	products := []domain.Product{
		{
			ID:         "6f1a2b3c-0001-4000-8000-000000000001",
			Name:       "Sweet Basil",
			PriceCents: 599,
			Stock:      40,
			Option:     "herb",
			Images:     []string{"/images/basil.jpg"},
			Variants: []domain.Variant{
				{ID: "6f1a2b3c-0001-4000-8000-0000000000a1", Name: "Large pot", PriceCents: 999, Stock: 12},
			},
		},
		{
			ID:                 "6f1a2b3c-0002-4000-8000-000000000002",
			Name:               "Monstera Deliciosa",
			PriceCents:         2499,
			DiscountPriceCents: 1999,
			OnSale:             true,
			Stock:              15,
			Option:             "houseplant",
			Images:             []string{"/images/monstera.jpg"},
		},
		{
			ID:                 "6f1a2b3c-0003-4000-8000-000000000003",
			Name:               "Snake Plant",
			PriceCents:         1799,
			DiscountPriceCents: 1499,
			Stock:              25,
			Option:             "houseplant",
			Images:             []string{"/images/snake-plant.jpg"},
			Variants: []domain.Variant{
				{ID: "6f1a2b3c-0003-4000-8000-0000000000a1", Name: "Small", PriceCents: 1299, Stock: 10},
				{ID: "6f1a2b3c-0003-4000-8000-0000000000a2", Name: "Tall", PriceCents: 2299, Stock: 6},
			},
		},
		{
			ID:         "6f1a2b3c-0004-4000-8000-000000000004",
			Name:       "Terracotta Pot 15cm",
			PriceCents: 899,
			Stock:      60,
			Option:     "accessory",
			Images:     []string{"/images/terracotta.jpg"},
		},
	}

	for _, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return nil
}
