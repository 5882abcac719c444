package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketgo/backend/domain"
)

func ledgerLines() []domain.OrderLine {
	return []domain.OrderLine{
		{ItemID: "widget", ItemType: domain.ItemTypeProduct, Name: "Widget", Quantity: 3},
		{ItemID: "gadget", ItemType: domain.ItemTypeProduct, Name: "Gadget", Quantity: 1},
		{ItemID: "cleaning", ItemType: domain.ItemTypeService, Name: "Deep Cleaning", Quantity: 1},
	}
}

func TestStockLedgerReserve(t *testing.T) {
	t.Run("decrements every product line and skips services", func(t *testing.T) {
		catalog := testCatalog()
		ledger := NewStockLedger(catalog, nil)

		require.NoError(t, ledger.Reserve(context.Background(), ledgerLines()))
		assert.Equal(t, 2, catalog.stock("widget"))
		assert.Equal(t, 1, catalog.stock("gadget"))
	})

	t.Run("rolls back applied decrements when a later line is short", func(t *testing.T) {
		catalog := testCatalog()
		ledger := NewStockLedger(catalog, nil)

		lines := []domain.OrderLine{
			{ItemID: "widget", ItemType: domain.ItemTypeProduct, Name: "Widget", Quantity: 2},
			{ItemID: "gadget", ItemType: domain.ItemTypeProduct, Name: "Gadget", Quantity: 5},
		}
		err := ledger.Reserve(context.Background(), lines)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInsufficientStock))
		assert.Contains(t, err.Error(), "Gadget")

		assert.Equal(t, 5, catalog.stock("widget"))
		assert.Equal(t, 2, catalog.stock("gadget"))
	})

	t.Run("classifies a vanished product as an adjustment failure", func(t *testing.T) {
		catalog := testCatalog()
		catalog.failAdjust["gadget"] = domain.ErrCatalogItemNotFound
		ledger := NewStockLedger(catalog, nil)

		err := ledger.Reserve(context.Background(), ledgerLines())
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeStockAdjustment))
		assert.Equal(t, 5, catalog.stock("widget"))
	})

	t.Run("wraps unexpected storage failures", func(t *testing.T) {
		catalog := testCatalog()
		catalog.failAdjust["widget"] = errors.New("connection reset")
		ledger := NewStockLedger(catalog, nil)

		err := ledger.Reserve(context.Background(), ledgerLines())
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeStockAdjustment))
	})
}

func TestStockLedgerRelease(t *testing.T) {
	t.Run("reserve then release is a round trip", func(t *testing.T) {
		catalog := testCatalog()
		ledger := NewStockLedger(catalog, nil)
		lines := ledgerLines()

		require.NoError(t, ledger.Reserve(context.Background(), lines))
		require.NoError(t, ledger.Release(context.Background(), lines))

		assert.Equal(t, 5, catalog.stock("widget"))
		assert.Equal(t, 2, catalog.stock("gadget"))
	})

	t.Run("service-only lines never touch the catalog", func(t *testing.T) {
		catalog := testCatalog()
		ledger := NewStockLedger(catalog, nil)
		lines := []domain.OrderLine{
			{ItemID: "cleaning", ItemType: domain.ItemTypeService, Name: "Deep Cleaning", Quantity: 2},
		}
		require.NoError(t, ledger.Reserve(context.Background(), lines))
		require.NoError(t, ledger.Release(context.Background(), lines))
	})
}
