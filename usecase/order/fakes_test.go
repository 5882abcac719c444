package order

import (
	"context"
	"fmt"
	"sync"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

// fakeCatalog is an in-memory CatalogStore with the same conditional
// adjustment contract as the Postgres implementation.
type fakeCatalog struct {
	mu    sync.Mutex
	items map[string]*domain.CatalogItem

	failAdjust map[string]error // forced AdjustStock failures by item id
}

func newFakeCatalog(items ...domain.CatalogItem) *fakeCatalog {
	c := &fakeCatalog{
		items:      make(map[string]*domain.CatalogItem),
		failAdjust: make(map[string]error),
	}
	for i := range items {
		item := items[i]
		c.items[item.ID] = &item
	}
	return c
}

func (c *fakeCatalog) GetItem(_ context.Context, id string, itemType domain.ItemType) (*domain.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok || item.Type != itemType {
		return nil, domain.ErrCatalogItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (c *fakeCatalog) AdjustStock(_ context.Context, id string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failAdjust[id]; ok {
		return err
	}
	item, ok := c.items[id]
	if !ok {
		return domain.ErrCatalogItemNotFound
	}
	if item.Stock+delta < 0 {
		return domain.NewErrorf(domain.ErrCodeInsufficientStock,
			"not enough stock for product %s: available %d, requested %d", id, item.Stock, -delta)
	}
	item.Stock += delta
	return nil
}

func (c *fakeCatalog) ListProducts(_ context.Context, limit, offset int) ([]domain.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.CatalogItem
	for _, item := range c.items {
		if item.Type == domain.ItemTypeProduct {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (c *fakeCatalog) stock(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[id]; ok {
		return item.Stock
	}
	return -1
}

// fakeOrderRepo is an in-memory OrderRepository whose UpdateGuarded honors
// the compare-and-swap contract under concurrent callers.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	nextID int
}

func newFakeOrderRepo(seed ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range seed {
		copied := *o
		r.orders[o.ID] = &copied
	}
	return r
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if filter.BuyerID != "" && o.BuyerID != filter.BuyerID {
			continue
		}
		if filter.SellerID != "" && !o.InvolvesSeller(filter.SellerID) {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == "" {
		r.nextID++
		order.ID = fmt.Sprintf("order-%d", r.nextID)
	}
	copied := *order
	r.orders[order.ID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeOrderRepo) UpdateGuarded(_ context.Context, id string, update repository.StatusUpdate) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != update.Expected {
		return nil, domain.ErrStatusConflict
	}
	o.Status = update.Status
	o.Payment = update.Payment
	o.CancellationReason = update.CancellationReason
	copied := *o
	return &copied, nil
}

// memorySink collects emitted audit events and doubles as the history store,
// standing in for the sink-buffer-repository chain.
type memorySink struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (s *memorySink) Record(_ context.Context, event *domain.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *memorySink) Append(ctx context.Context, event *domain.OrderEvent) error {
	return s.Record(ctx, event)
}

func (s *memorySink) ListByOrder(_ context.Context, orderID string, limit int) ([]domain.OrderEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.OrderEvent
	for _, e := range s.events {
		if e.OrderID == orderID && (limit <= 0 || len(out) < limit) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memorySink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

// memoryCache is an in-memory SnapshotCache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]domain.Order
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]domain.Order)}
}

func (c *memoryCache) Get(_ context.Context, id string) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o, ok := c.entries[id]; ok {
		copied := o
		return &copied, nil
	}
	return nil, nil
}

func (c *memoryCache) Set(_ context.Context, order *domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[order.ID] = *order
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
