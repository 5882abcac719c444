package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

// StateMachine owns every order status mutation. It decides which transitions
// commit or return stock, and persists status, payment, and cancellation
// reason through a single status-guarded write so concurrent transitions on
// the same order cannot both take effect.
type StateMachine struct {
	orders repository.OrderRepository
	ledger *StockLedger
	logger *zap.Logger
	now    func() time.Time
}

func NewStateMachine(orders repository.OrderRepository, ledger *StockLedger, logger *zap.Logger) *StateMachine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateMachine{
		orders: orders,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// ApplyTransition moves the order to rawStatus on behalf of actor. Re-applying
// the current status is an idempotent no-op so retries succeed. Stock is
// adjusted before the guarded write and compensated if the guard loses a race,
// keeping reservation and release at most once per order.
func (m *StateMachine) ApplyTransition(ctx context.Context, o *domain.Order, rawStatus string, actor domain.Actor, reason string) (*domain.Order, error) {
	newStatus, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	if !CanMutateStatus(o, actor) {
		return nil, domain.NewError(domain.ErrCodeForbiddenTransition, "not authorized to update this order's status")
	}

	if newStatus == o.Status {
		return o, nil
	}

	if !domain.CanTransition(o.Status, newStatus) {
		return nil, domain.NewErrorf(domain.ErrCodeForbiddenTransition,
			"cannot transition from %s to %s", o.Status, newStatus)
	}

	update := repository.StatusUpdate{
		Expected:           o.Status,
		Status:             newStatus,
		Payment:            o.Payment,
		CancellationReason: o.CancellationReason,
	}

	var reserved, released bool

	switch {
	case newStatus.Cancellation():
		if reason == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "cancellation reason is required")
		}
		update.CancellationReason = reason
		if o.StockReserved() {
			if err := m.ledger.Release(ctx, o.Items); err != nil {
				return nil, err
			}
			released = true
			update.Payment.Status = domain.PaymentRefunded
		}

	case newStatus.CommitsInventory() && o.Payment.Status == domain.PaymentPending:
		// First paying transition: inventory is committed here, not at order
		// creation, and payment completes in the same guarded write.
		if err := m.ledger.Reserve(ctx, o.Items); err != nil {
			return nil, err
		}
		reserved = true
		paidAt := m.now()
		update.Payment.Status = domain.PaymentCompleted
		update.Payment.PaidAt = &paidAt
	}

	updated, err := m.orders.UpdateGuarded(ctx, o.ID, update)
	if err != nil {
		// The guard lost: another transition got there first. Undo whatever
		// stock movement this attempt made.
		if reserved {
			if relErr := m.ledger.Release(ctx, o.Items); relErr != nil {
				m.logger.Error("failed to undo reservation after lost transition",
					zap.String("order_id", o.ID), zap.Error(relErr))
			}
		}
		if released {
			if resErr := m.ledger.Reserve(ctx, o.Items); resErr != nil {
				m.logger.Error("failed to undo release after lost transition",
					zap.String("order_id", o.ID), zap.Error(resErr))
			}
		}
		return nil, err
	}

	return updated, nil
}
