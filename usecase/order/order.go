package order

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
	"github.com/marketgo/backend/usecase"
)

// SnapshotCache abstracts the Redis order cache. All methods are best-effort;
// the use case treats a nil cache and a failing cache the same way.
type SnapshotCache interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	Set(ctx context.Context, order *domain.Order) error
	Invalidate(ctx context.Context, id string) error
}

// UseCase is the order subsystem's application service: it wires the builder,
// the stock ledger, and the state machine behind the HTTP surface.
type UseCase struct {
	orders  repository.OrderRepository
	builder *Builder
	machine *StateMachine
	cache   SnapshotCache
	events  usecase.EventSink
	history repository.EventRepository
	logger  *zap.Logger
}

func New(
	orders repository.OrderRepository,
	catalog repository.CatalogStore,
	cache SnapshotCache,
	events usecase.EventSink,
	history repository.EventRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ledger := NewStockLedger(catalog, logger)
	return &UseCase{
		orders:  orders,
		builder: NewBuilder(catalog),
		machine: NewStateMachine(orders, ledger, logger),
		cache:   cache,
		events:  events,
		history: history,
		logger:  logger,
	}
}

// CreateOrder builds, prices, and persists a new order. No stock moves here;
// reservation happens on the first paying transition.
func (uc *UseCase) CreateOrder(ctx context.Context, buyer domain.Actor, in CreateOrderInput) (*domain.Order, error) {
	built, err := uc.builder.Build(ctx, buyer, in)
	if err != nil {
		return nil, err
	}

	created, err := uc.orders.Create(ctx, built)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, created)
	uc.emit(ctx, domain.EventOrderCreated, created, buyer, nil)

	return created, nil
}

// GetOrder returns the order when the actor may view it. Unauthorized access
// is a FORBIDDEN failure, never a silent empty result.
func (uc *UseCase) GetOrder(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	if cached := uc.cacheGet(ctx, id); cached != nil {
		if !CanView(cached, actor) {
			return nil, domain.ErrForbidden
		}
		return cached, nil
	}

	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(o, actor) {
		return nil, domain.ErrForbidden
	}

	uc.cacheSet(ctx, o)
	return o, nil
}

// ListForBuyer returns the actor's own purchases, newest first.
func (uc *UseCase) ListForBuyer(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Order, error) {
	return uc.orders.List(ctx, repository.OrderFilter{
		BuyerID: actor.ID,
		Limit:   limit,
		Offset:  offset,
	})
}

// ListForSeller returns orders containing at least one of the actor's items.
func (uc *UseCase) ListForSeller(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.Order, error) {
	return uc.orders.List(ctx, repository.OrderFilter{
		SellerID: actor.ID,
		Limit:    limit,
		Offset:   offset,
	})
}

// UpdateStatus applies a lifecycle transition on behalf of the actor.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor domain.Actor, id, rawStatus, reason string) (*domain.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := o.Status
	updated, err := uc.machine.ApplyTransition(ctx, o, rawStatus, actor, reason)
	if err != nil {
		return nil, err
	}

	if updated.Status != from {
		uc.cacheInvalidate(ctx, id)
		payload := marshalPayload(domain.StatusChangedPayload{
			From:   from,
			To:     updated.Status,
			Reason: reason,
		})
		uc.emit(ctx, domain.EventStatusChanged, updated, actor, payload)
	}

	return updated, nil
}

// ListEvents returns the order's audit trail, oldest first. The same view
// rules apply as for the order itself. Events written through the buffer may
// lag behind the operations that produced them.
func (uc *UseCase) ListEvents(ctx context.Context, actor domain.Actor, id string, limit int) ([]domain.OrderEvent, error) {
	if _, err := uc.GetOrder(ctx, actor, id); err != nil {
		return nil, err
	}
	if uc.history == nil {
		return nil, nil
	}
	return uc.history.ListByOrder(ctx, id, limit)
}

func (uc *UseCase) cacheGet(ctx context.Context, id string) *domain.Order {
	if uc.cache == nil {
		return nil
	}
	o, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.Warn("order cache read failed", zap.String("order_id", id), zap.Error(err))
		return nil
	}
	return o
}

func (uc *UseCase) cacheSet(ctx context.Context, o *domain.Order) {
	if uc.cache == nil || o == nil {
		return
	}
	if err := uc.cache.Set(ctx, o); err != nil {
		uc.logger.Warn("order cache write failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (uc *UseCase) cacheInvalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("order cache invalidation failed", zap.String("order_id", id), zap.Error(err))
	}
}

// emit records an audit event after the core operation has committed. Failures
// are logged and swallowed; they never affect the operation's result.
func (uc *UseCase) emit(ctx context.Context, kind string, o *domain.Order, actor domain.Actor, payload json.RawMessage) {
	if uc.events == nil {
		return
	}
	event := &domain.OrderEvent{
		OrderID: o.ID,
		Kind:    kind,
		ActorID: actor.ID,
		Payload: payload,
	}
	if err := uc.events.Record(ctx, event); err != nil {
		uc.logger.Warn("order event not recorded",
			zap.String("order_id", o.ID), zap.String("kind", kind), zap.Error(err))
	}
}

func marshalPayload(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
