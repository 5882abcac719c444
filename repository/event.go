package repository

import (
	"context"

	"github.com/marketgo/backend/domain"
)

// EventRepository persists the append-only order audit trail.
type EventRepository interface {
	Append(ctx context.Context, event *domain.OrderEvent) error
	ListByOrder(ctx context.Context, orderID string, limit int) ([]domain.OrderEvent, error)
}
