package domain

// ItemType distinguishes the two catalog entity kinds an order line can reference.
type ItemType string

const (
	ItemTypeProduct ItemType = "Product"
	ItemTypeService ItemType = "Service"
)

// ParseItemType validates an incoming item type value.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeProduct, ItemTypeService:
		return ItemType(s), nil
	default:
		return "", NewErrorf(ErrCodeInvalid, "invalid item type: %q", s)
	}
}

// CatalogItem is the slice of a product or service the order subsystem reads.
// Stock is meaningful for products only; the catalog remains the source of
// price and stock truth.
type CatalogItem struct {
	ID         string   `json:"id"`
	Type       ItemType `json:"type"`
	SellerID   string   `json:"seller_id"`
	Name       string   `json:"name"`
	Image      string   `json:"image,omitempty"`
	PriceCents int64    `json:"price_cents"`
	Stock      int      `json:"stock"`
}
