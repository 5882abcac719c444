package order

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketgo/backend/domain"
)

func newTestUseCase(t *testing.T, catalog *fakeCatalog) (*UseCase, *fakeOrderRepo, *memoryCache, *memorySink) {
	t.Helper()
	repo := newFakeOrderRepo()
	cache := newMemoryCache()
	sink := &memorySink{}
	uc := New(repo, catalog, cache, sink, sink, nil)
	return uc, repo, cache, sink
}

var buyer = domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}

func TestUseCaseCreateOrder(t *testing.T) {
	uc, repo, cache, sink := newTestUseCase(t, testCatalog())

	created, err := uc.CreateOrder(context.Background(), buyer, CreateOrderInput{
		Lines:           []LineInput{{ItemID: "widget", ItemType: "Product", Quantity: 2}},
		ShippingAddress: testShipping,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, stored.Status)

	cached, err := cache.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)

	assert.Equal(t, []string{domain.EventOrderCreated}, sink.kinds())
}

func TestUseCaseGetOrder(t *testing.T) {
	uc, _, cache, _ := newTestUseCase(t, testCatalog())

	created, err := uc.CreateOrder(context.Background(), buyer, CreateOrderInput{
		Lines:           []LineInput{{ItemID: "widget", ItemType: "Product", Quantity: 1}},
		ShippingAddress: testShipping,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   domain.Actor
		allowed bool
	}{
		{"buyer sees their order", buyer, true},
		{"involved seller sees the order", domain.Actor{ID: "seller-a", Role: domain.RoleSeller}, true},
		{"admin sees everything", domain.Actor{ID: "ops-1", Role: domain.RoleAdmin}, true},
		{"stranger is rejected", domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}, false},
		{"uninvolved seller is rejected", domain.Actor{ID: "seller-z", Role: domain.RoleSeller}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.GetOrder(context.Background(), tt.actor, created.ID)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, created.ID, got.ID)
			} else {
				require.Error(t, err)
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
			}
		})
	}

	t.Run("authorization also applies on a cache hit", func(t *testing.T) {
		cached, err := cache.Get(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, cached, "order should be cached by now")

		_, err = uc.GetOrder(context.Background(), domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}, created.ID)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := uc.GetOrder(context.Background(), buyer, "no-such-order")
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})
}

func TestUseCaseListing(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t, testCatalog())

	_, err := uc.CreateOrder(context.Background(), buyer, CreateOrderInput{
		Lines:           []LineInput{{ItemID: "widget", ItemType: "Product", Quantity: 1}},
		ShippingAddress: testShipping,
	})
	require.NoError(t, err)

	otherBuyer := domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}
	_, err = uc.CreateOrder(context.Background(), otherBuyer, CreateOrderInput{
		Lines: []LineInput{{ItemID: "cleaning", ItemType: "Service", Quantity: 1}},
	})
	require.NoError(t, err)

	mine, err := uc.ListForBuyer(context.Background(), buyer, 50, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, buyer.ID, mine[0].BuyerID)

	sales, err := uc.ListForSeller(context.Background(), domain.Actor{ID: "seller-c", Role: domain.RoleSeller}, 50, 0)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, otherBuyer.ID, sales[0].BuyerID)

	none, err := uc.ListForSeller(context.Background(), domain.Actor{ID: "seller-z", Role: domain.RoleSeller}, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUseCaseUpdateStatus(t *testing.T) {
	catalog := testCatalog()
	uc, _, cache, sink := newTestUseCase(t, catalog)

	created, err := uc.CreateOrder(context.Background(), buyer, CreateOrderInput{
		Lines:           []LineInput{{ItemID: "widget", ItemType: "Product", Quantity: 3}},
		ShippingAddress: testShipping,
	})
	require.NoError(t, err)

	sellerActor := domain.Actor{ID: "seller-a", Role: domain.RoleSeller}
	updated, err := uc.UpdateStatus(context.Background(), sellerActor, created.ID, "confirmed", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	t.Run("cache entry is dropped after a transition", func(t *testing.T) {
		cached, err := cache.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("status change event carries the edge", func(t *testing.T) {
		require.Len(t, sink.events, 2)
		event := sink.events[1]
		assert.Equal(t, domain.EventStatusChanged, event.Kind)
		assert.Equal(t, sellerActor.ID, event.ActorID)

		var payload domain.StatusChangedPayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, domain.StatusPendingPayment, payload.From)
		assert.Equal(t, domain.StatusConfirmed, payload.To)
	})

	t.Run("no-op repeat emits nothing", func(t *testing.T) {
		before := len(sink.kinds())
		_, err := uc.UpdateStatus(context.Background(), sellerActor, created.ID, "confirmed", "")
		require.NoError(t, err)
		assert.Len(t, sink.kinds(), before)
	})
}

func TestUseCaseListEvents(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t, testCatalog())

	created, err := uc.CreateOrder(context.Background(), buyer, CreateOrderInput{
		Lines:           []LineInput{{ItemID: "widget", ItemType: "Product", Quantity: 1}},
		ShippingAddress: testShipping,
	})
	require.NoError(t, err)

	sellerActor := domain.Actor{ID: "seller-a", Role: domain.RoleSeller}
	_, err = uc.UpdateStatus(context.Background(), sellerActor, created.ID, "confirmed", "")
	require.NoError(t, err)

	events, err := uc.ListEvents(context.Background(), buyer, created.ID, 50)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventOrderCreated, events[0].Kind)
	assert.Equal(t, domain.EventStatusChanged, events[1].Kind)

	t.Run("view rules apply to the trail too", func(t *testing.T) {
		_, err := uc.ListEvents(context.Background(), domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}, created.ID, 50)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})
}

// Full lifecycle walk: order three widgets out of five, pay on confirmation,
// then cancel and watch payment and stock settle back.
func TestOrderLifecycleEndToEnd(t *testing.T) {
	catalog := newFakeCatalog(domain.CatalogItem{
		ID: "widget", Type: domain.ItemTypeProduct, SellerID: "seller-a",
		Name: "Widget", PriceCents: 1000, Stock: 5,
	})
	uc, repo, _, sink := newTestUseCase(t, catalog)

	created, err := uc.CreateOrder(context.Background(), buyer, CreateOrderInput{
		Lines:           []LineInput{{ItemID: "widget", ItemType: "Product", Quantity: 3}},
		ShippingAddress: testShipping,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), created.TotalCents)
	assert.Equal(t, domain.StatusPendingPayment, created.Status)
	assert.Equal(t, domain.PaymentPending, created.Payment.Status)
	assert.Equal(t, 5, catalog.stock("widget"), "creation must not move stock")

	sellerActor := domain.Actor{ID: "seller-a", Role: domain.RoleSeller}
	confirmed, err := uc.UpdateStatus(context.Background(), sellerActor, created.ID, "confirmed", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, confirmed.Payment.Status)
	require.NotNil(t, confirmed.Payment.PaidAt)
	assert.Equal(t, 2, catalog.stock("widget"))

	cancelled, err := uc.UpdateStatus(context.Background(), sellerActor, created.ID, "cancelled_by_seller", "supplier issue")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledBySeller, cancelled.Status)
	assert.Equal(t, domain.PaymentRefunded, cancelled.Payment.Status)
	assert.Equal(t, "supplier issue", cancelled.CancellationReason)
	assert.Equal(t, 5, catalog.stock("widget"))

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledBySeller, stored.Status)

	assert.Equal(t, []string{
		domain.EventOrderCreated,
		domain.EventStatusChanged,
		domain.EventStatusChanged,
	}, sink.kinds())
}
