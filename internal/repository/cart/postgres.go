package cart

import (
	"context"
	"errors"

	"greenville/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, customerID string) ([]domain.CartEntry, error) {
	var cartID string
	err := r.pool.QueryRow(ctx, `
SELECT id::text
FROM carts
WHERE customer_id = $1
`, customerID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return fetchEntries(ctx, r.pool, cartID)
}

func (r *postgresRepo) Replace(ctx context.Context, customerID string, entries []domain.CartEntry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cartID, err := upsertCart(ctx, tx, customerID)
	if err != nil {
		return err
	}
	if err := rewriteEntries(ctx, tx, cartID, entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Merge(ctx context.Context, customerID string, entries []domain.CartEntry) ([]domain.CartEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := upsertCart(ctx, tx, customerID)
	if err != nil {
		return nil, err
	}

	// Lock the cart row so concurrent merges for the same customer
	// serialize on the read-then-write below.
	if _, err := tx.Exec(ctx, `SELECT 1 FROM carts WHERE id = $1 FOR UPDATE`, cartID); err != nil {
		return nil, err
	}

	stored, err := fetchEntries(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}

	merged := domain.MergeEntries(stored, entries)
	if err := rewriteEntries(ctx, tx, cartID, merged); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return merged, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchEntries(ctx context.Context, q querier, cartID string) ([]domain.CartEntry, error) {
	const query = `
SELECT product_id::text, quantity, variant
FROM cart_items
WHERE cart_id = $1
ORDER BY position ASC, created_at ASC
`
	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CartEntry
	for rows.Next() {
		var e domain.CartEntry
		if err := rows.Scan(&e.Product, &e.Quantity, &e.Variant); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func upsertCart(ctx context.Context, tx pgx.Tx, customerID string) (string, error) {
	const q = `
INSERT INTO carts (customer_id)
VALUES ($1)
ON CONFLICT (customer_id) DO UPDATE SET updated_at = now()
RETURNING id::text
`
	var cartID string
	if err := tx.QueryRow(ctx, q, customerID).Scan(&cartID); err != nil {
		return "", err
	}
	return cartID, nil
}

func rewriteEntries(ctx context.Context, tx pgx.Tx, cartID string, entries []domain.CartEntry) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	for i, e := range entries {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, variant, position)
VALUES ($1, $2, $3, $4, $5)
`, cartID, e.Product, e.Quantity, e.Variant, i); err != nil {
			return err
		}
	}
	return nil
}
