package product

import (
	"context"
	"io"
	"log"

	"greenville/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, name, price_cents, discount_price_cents, on_sale, stock, option, images, subcategory_id, variants, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}
	p, err := scanProduct(rows)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, price_cents, discount_price_cents, on_sale, stock, option, images, subcategory_id, variants)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, '[]'::jsonb))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    discount_price_cents = EXCLUDED.discount_price_cents,
    on_sale = EXCLUDED.on_sale,
    stock = EXCLUDED.stock,
    option = EXCLUDED.option,
    images = EXCLUDED.images,
    subcategory_id = EXCLUDED.subcategory_id,
    variants = EXCLUDED.variants
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.PriceCents,
		product.DiscountPriceCents,
		product.OnSale,
		product.Stock,
		product.Option,
		product.Images,
		product.SubcategoryID,
		product.Variants,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", product.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q", res.ID, res.Name)
	return &res, nil
}

func scanProduct(rows pgx.Rows) (*domain.Product, error) {
	var p domain.Product
	if err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.PriceCents,
		&p.DiscountPriceCents,
		&p.OnSale,
		&p.Stock,
		&p.Option,
		&p.Images,
		&p.SubcategoryID,
		&p.Variants,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
