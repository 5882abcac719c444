package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository returns a Postgres-backed implementation of EventRepository.
func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Append(ctx context.Context, event *domain.OrderEvent) error {
	if event == nil || event.OrderID == "" {
		return domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	const query = `
	INSERT INTO order_events (id, order_id, kind, actor_id, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING
	`
	// ON CONFLICT keeps buffered redelivery idempotent; a replayed event keeps
	// its original id. created_at is the emit time carried with the event, so
	// a backlog drained late still reads back in lifecycle order.
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.OrderID,
		event.Kind,
		event.ActorID,
		[]byte(event.Payload),
		event.CreatedAt,
	)
	return err
}

func (r *eventRepository) ListByOrder(ctx context.Context, orderID string, limit int) ([]domain.OrderEvent, error) {
	const query = `
	SELECT id, order_id, kind, actor_id, payload, created_at
	FROM order_events
	WHERE order_id = $1
	ORDER BY created_at, id
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, orderID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OrderEvent
	for rows.Next() {
		var event domain.OrderEvent
		var payload []byte
		if err := rows.Scan(
			&event.ID,
			&event.OrderID,
			&event.Kind,
			&event.ActorID,
			&payload,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		event.Payload = payload
		events = append(events, event)
	}
	return events, rows.Err()
}
