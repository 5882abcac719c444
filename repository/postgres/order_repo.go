package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation of OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `
	id, buyer_id, status, total_cents, payment, items, shipping_address,
	service_address, service_date, notes_to_seller, cancellation_reason,
	created_at, updated_at`

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
	SELECT` + orderColumns + `
	FROM orders
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanOrder(row)
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	const query = `
	SELECT` + orderColumns + `
	FROM orders
	WHERE ($1 = '' OR buyer_id = $1)
	  AND ($2 = '' OR $2 = ANY(seller_ids))
	  AND ($3 = '' OR status = $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.BuyerID, filter.SellerID, filter.Status, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrInvalidPayload
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO orders (id, buyer_id, status, total_cents, payment, items, seller_ids,
		shipping_address, service_address, service_date, notes_to_seller)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING created_at, updated_at
	`

	var serviceDate interface{}
	if order.ServiceDate != nil {
		serviceDate = *order.ServiceDate
	}

	if err := r.pool.QueryRow(ctx, query,
		order.ID,
		order.BuyerID,
		string(order.Status),
		order.TotalCents,
		marshalJSON(order.Payment),
		marshalJSON(order.Items),
		order.SellerIDs(),
		marshalAddress(order.ShippingAddress),
		marshalAddress(order.ServiceAddress),
		serviceDate,
		order.NotesToSeller,
	).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) UpdateGuarded(ctx context.Context, id string, update repository.StatusUpdate) (*domain.Order, error) {
	const query = `
	UPDATE orders
	SET status = $3,
		payment = $4,
		cancellation_reason = $5,
		updated_at = NOW()
	WHERE id = $1 AND status = $2
	RETURNING` + orderColumns + `
	`

	row := r.pool.QueryRow(ctx, query,
		id,
		string(update.Expected),
		string(update.Status),
		marshalJSON(update.Payment),
		update.CancellationReason,
	)
	order, err := scanOrder(row)
	if err == nil {
		return order, nil
	}
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	// Guard miss: tell a vanished order apart from a concurrent transition.
	var current string
	if err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return nil, domain.ErrStatusConflict
}

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Order, error) {
	var order domain.Order
	var (
		status          string
		payment         []byte
		items           []byte
		shippingAddress []byte
		serviceAddress  []byte
		serviceDate     *time.Time
	)

	if err := row.Scan(
		&order.ID,
		&order.BuyerID,
		&status,
		&order.TotalCents,
		&payment,
		&items,
		&shippingAddress,
		&serviceAddress,
		&serviceDate,
		&order.NotesToSeller,
		&order.CancellationReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = domain.Status(status)
	order.ServiceDate = serviceDate
	if len(payment) > 0 {
		if err := json.Unmarshal(payment, &order.Payment); err != nil {
			return nil, err
		}
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, err
		}
	}
	order.ShippingAddress = unmarshalAddress(shippingAddress)
	order.ServiceAddress = unmarshalAddress(serviceAddress)

	return &order, nil
}

func marshalAddress(a *domain.Address) []byte {
	if a == nil {
		return nil
	}
	return marshalJSON(a)
}

func unmarshalAddress(data []byte) *domain.Address {
	if len(data) == 0 {
		return nil
	}
	var a domain.Address
	if err := json.Unmarshal(data, &a); err != nil {
		return nil
	}
	return &a
}
