package domain

import "time"

// Payment statuses tracked inside an order.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// DefaultPaymentMethod is used when the buyer does not pick one.
const DefaultPaymentMethod = "stripe_placeholder"

// OrderLine is a frozen snapshot of a catalog item at purchase time. Catalog
// changes after purchase must not alter historical orders.
type OrderLine struct {
	ItemID     string   `json:"item_id"`
	ItemType   ItemType `json:"item_type"`
	Name       string   `json:"name"`
	Image      string   `json:"image,omitempty"`
	Quantity   int      `json:"quantity"`
	PriceCents int64    `json:"price_cents"`
	SellerID   string   `json:"seller_id"`
}

// PaymentDetails records how and whether an order was paid.
type PaymentDetails struct {
	Method        string     `json:"method"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// Address holds a shipping or on-site service location.
type Address struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Complete reports whether the mandatory shipping fields are present.
func (a *Address) Complete() bool {
	return a != nil && a.Street != "" && a.City != "" && a.ZipCode != "" && a.Country != ""
}

// Order is the aggregate root of the order subsystem. Lines are immutable once
// written; totals are a denormalized snapshot and never recomputed.
type Order struct {
	ID                 string         `json:"id"`
	BuyerID            string         `json:"buyer_id"`
	Items              []OrderLine    `json:"items"`
	TotalCents         int64          `json:"total_cents"`
	Payment            PaymentDetails `json:"payment"`
	Status             Status         `json:"status"`
	ShippingAddress    *Address       `json:"shipping_address,omitempty"`
	ServiceAddress     *Address       `json:"service_address,omitempty"`
	ServiceDate        *time.Time     `json:"service_date,omitempty"`
	NotesToSeller      string         `json:"notes_to_seller,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// HasProductLines reports whether any line references a physical product.
func (o *Order) HasProductLines() bool {
	if o == nil {
		return false
	}
	for _, line := range o.Items {
		if line.ItemType == ItemTypeProduct {
			return true
		}
	}
	return false
}

// ProductLines returns the subset of lines that touch stock.
func (o *Order) ProductLines() []OrderLine {
	var lines []OrderLine
	for _, line := range o.Items {
		if line.ItemType == ItemTypeProduct {
			lines = append(lines, line)
		}
	}
	return lines
}

// SellerIDs returns the distinct sellers referenced by the order's lines.
func (o *Order) SellerIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	var ids []string
	for _, line := range o.Items {
		if _, ok := seen[line.SellerID]; ok {
			continue
		}
		seen[line.SellerID] = struct{}{}
		ids = append(ids, line.SellerID)
	}
	return ids
}

// InvolvesSeller reports whether the given user owns any line in the order.
func (o *Order) InvolvesSeller(userID string) bool {
	for _, line := range o.Items {
		if line.SellerID == userID {
			return true
		}
	}
	return false
}

// StockReserved reports whether inventory has been committed for this order.
// Payment completion and stock commitment are a single combined event.
func (o *Order) StockReserved() bool {
	return o != nil && o.Payment.Status == PaymentCompleted
}
