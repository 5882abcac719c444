package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressComplete(t *testing.T) {
	tests := []struct {
		name string
		addr *Address
		want bool
	}{
		{"nil address", nil, false},
		{"all mandatory fields", &Address{Street: "1 Main St", City: "Lyon", ZipCode: "69001", Country: "FR"}, true},
		{"missing street", &Address{City: "Lyon", ZipCode: "69001", Country: "FR"}, false},
		{"missing city", &Address{Street: "1 Main St", ZipCode: "69001", Country: "FR"}, false},
		{"missing zip", &Address{Street: "1 Main St", City: "Lyon", Country: "FR"}, false},
		{"missing country", &Address{Street: "1 Main St", City: "Lyon", ZipCode: "69001"}, false},
		{"state and phone are optional", &Address{Street: "1 Main St", City: "Lyon", ZipCode: "69001", Country: "FR", State: "", PhoneNumber: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.Complete())
		})
	}
}

func TestOrderLineHelpers(t *testing.T) {
	mixed := &Order{Items: []OrderLine{
		{ItemID: "p1", ItemType: ItemTypeProduct, SellerID: "seller-a", Quantity: 2},
		{ItemID: "s1", ItemType: ItemTypeService, SellerID: "seller-b", Quantity: 1},
		{ItemID: "p2", ItemType: ItemTypeProduct, SellerID: "seller-a", Quantity: 1},
	}}

	assert.True(t, mixed.HasProductLines())
	assert.Len(t, mixed.ProductLines(), 2)
	assert.Equal(t, []string{"seller-a", "seller-b"}, mixed.SellerIDs())
	assert.True(t, mixed.InvolvesSeller("seller-b"))
	assert.False(t, mixed.InvolvesSeller("seller-c"))

	serviceOnly := &Order{Items: []OrderLine{
		{ItemID: "s1", ItemType: ItemTypeService, SellerID: "seller-b"},
	}}
	assert.False(t, serviceOnly.HasProductLines())
	assert.Empty(t, serviceOnly.ProductLines())
}

func TestOrderStockReserved(t *testing.T) {
	assert.False(t, (&Order{Payment: PaymentDetails{Status: PaymentPending}}).StockReserved())
	assert.True(t, (&Order{Payment: PaymentDetails{Status: PaymentCompleted}}).StockReserved())
	assert.False(t, (&Order{Payment: PaymentDetails{Status: PaymentRefunded}}).StockReserved())
	var nilOrder *Order
	assert.False(t, nilOrder.StockReserved())
}
