package transport

// OrderLineInput is one cart entry as submitted by the buyer. ItemType is the
// union tag ("Product" or "Service") validated before any catalog lookup.
type OrderLineInput struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// AddressInput mirrors domain.Address on the wire.
type AddressInput struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// CreateOrderRequest is the POST /orders payload.
type CreateOrderRequest struct {
	Items           []OrderLineInput `json:"items"`
	ShippingAddress *AddressInput    `json:"shipping_address,omitempty"`
	ServiceAddress  *AddressInput    `json:"service_address,omitempty"`
	ServiceDate     string           `json:"service_date,omitempty"`
	NotesToSeller   string           `json:"notes_to_seller,omitempty"`
	PaymentMethod   string           `json:"payment_method,omitempty"`
}

// UpdateStatusRequest is the PATCH /orders/{id}/status payload.
type UpdateStatusRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}
