package repository

import (
	"context"

	"github.com/marketgo/backend/domain"
)

type OrderFilter struct {
	BuyerID  string
	SellerID string
	Status   string
	Limit    int
	Offset   int
}

// StatusUpdate carries everything a guarded transition writes in one statement.
// Expected is the compare-and-swap guard: the update applies only while the
// persisted status still equals it.
type StatusUpdate struct {
	Expected           domain.Status
	Status             domain.Status
	Payment            domain.PaymentDetails
	CancellationReason string
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// UpdateGuarded applies the status update iff the stored status matches
	// update.Expected. Returns domain.ErrStatusConflict when the guard fails
	// and domain.ErrOrderNotFound when the order does not exist.
	UpdateGuarded(ctx context.Context, id string, update StatusUpdate) (*domain.Order, error)
}
