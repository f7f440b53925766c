package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-checkout/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, ownerKey string) ([]domain.CartItem, error) {
	const q = `
SELECT items
FROM carts
WHERE owner_key = $1
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, ownerKey).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Save(ctx context.Context, ownerKey string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO carts (owner_key, items, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (owner_key)
DO UPDATE SET items = EXCLUDED.items, updated_at = now()
`
	_, err = r.pool.Exec(ctx, q, ownerKey, raw)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, ownerKey string) error {
	const q = `
DELETE FROM carts
WHERE owner_key = $1
`
	_, err := r.pool.Exec(ctx, q, ownerKey)
	return err
}
