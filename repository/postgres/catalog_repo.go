package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

type catalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore returns a Postgres-backed implementation of CatalogStore.
func NewCatalogStore(pool *pgxpool.Pool) repository.CatalogStore {
	return &catalogStore{pool: pool}
}

func (s *catalogStore) GetItem(ctx context.Context, id string, itemType domain.ItemType) (*domain.CatalogItem, error) {
	var (
		query string
		item  domain.CatalogItem
	)

	switch itemType {
	case domain.ItemTypeProduct:
		query = `
		SELECT id, seller_id, name, COALESCE(image, ''), price_cents, stock
		FROM products
		WHERE id = $1
		`
	case domain.ItemTypeService:
		query = `
		SELECT id, seller_id, name, COALESCE(image, ''), price_cents, 0
		FROM services
		WHERE id = $1
		`
	default:
		return nil, domain.NewErrorf(domain.ErrCodeInvalid, "invalid item type: %q", itemType)
	}

	if err := s.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.SellerID,
		&item.Name,
		&item.Image,
		&item.PriceCents,
		&item.Stock,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCatalogItemNotFound
		}
		return nil, err
	}

	item.Type = itemType
	return &item, nil
}

// AdjustStock applies the delta only when the result stays non-negative. The
// condition rides in the statement itself so concurrent adjustments cannot
// interleave between a read and a write.
func (s *catalogStore) AdjustStock(ctx context.Context, id string, delta int) error {
	const query = `
	UPDATE products
	SET stock = stock + $2, updated_at = NOW()
	WHERE id = $1 AND stock + $2 >= 0
	`
	tag, err := s.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// No row touched: either the product is gone or the guard refused.
	var stock int
	if err := s.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCatalogItemNotFound
		}
		return err
	}
	return domain.NewErrorf(domain.ErrCodeInsufficientStock,
		"not enough stock for product %s: available %d, requested %d", id, stock, -delta)
}

func (s *catalogStore) ListProducts(ctx context.Context, limit, offset int) ([]domain.CatalogItem, error) {
	const query = `
	SELECT id, seller_id, name, COALESCE(image, ''), price_cents, stock
	FROM products
	ORDER BY name
	LIMIT $1 OFFSET $2
	`
	rows, err := s.pool.Query(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(
			&item.ID,
			&item.SellerID,
			&item.Name,
			&item.Image,
			&item.PriceCents,
			&item.Stock,
		); err != nil {
			return nil, err
		}
		item.Type = domain.ItemTypeProduct
		items = append(items, item)
	}
	return items, rows.Err()
}
