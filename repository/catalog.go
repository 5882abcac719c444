package repository

import (
	"context"

	"github.com/marketgo/backend/domain"
)

// CatalogStore is the order subsystem's view of products and services. Stock
// writes go through AdjustStock only, and only the stock ledger calls it.
type CatalogStore interface {
	GetItem(ctx context.Context, id string, itemType domain.ItemType) (*domain.CatalogItem, error)
	// AdjustStock applies a positive or negative delta to a product's stock.
	// It fails with an INSUFFICIENT_STOCK domain error instead of driving the
	// count negative, and with NOT_FOUND when the product is gone.
	AdjustStock(ctx context.Context, id string, delta int) error
	ListProducts(ctx context.Context, limit, offset int) ([]domain.CatalogItem, error)
}
