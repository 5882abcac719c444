package order

import (
	"context"
	"time"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

// LineInput is one raw cart entry. The item type tag is validated before any
// catalog lookup happens.
type LineInput struct {
	ItemID   string
	ItemType string
	Quantity int
}

// CreateOrderInput carries everything a buyer submits when placing an order.
type CreateOrderInput struct {
	Lines           []LineInput
	ShippingAddress *domain.Address
	ServiceAddress  *domain.Address
	ServiceDate     *time.Time
	NotesToSeller   string
	PaymentMethod   string
}

// Builder turns a raw line-item request into a valid, priced order. It only
// reads the catalog; stock commitment happens later in the ledger.
type Builder struct {
	catalog repository.CatalogStore
}

func NewBuilder(catalog repository.CatalogStore) *Builder {
	return &Builder{catalog: catalog}
}

// Build validates the request, resolves and snapshots every line against the
// catalog, and produces an order in pending_payment with payment pending.
func (b *Builder) Build(ctx context.Context, buyer domain.Actor, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "order must contain at least one item")
	}

	// Reject malformed shapes eagerly, before touching the catalog.
	types := make([]domain.ItemType, len(in.Lines))
	for i, line := range in.Lines {
		if line.ItemID == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "item id is required")
		}
		itemType, err := domain.ParseItemType(line.ItemType)
		if err != nil {
			return nil, err
		}
		if line.Quantity < 1 {
			return nil, domain.NewErrorf(domain.ErrCodeInvalid, "quantity must be at least 1 for item %s", line.ItemID)
		}
		types[i] = itemType
	}

	var (
		lines      []domain.OrderLine
		totalCents int64
		hasProduct bool
	)
	for i, line := range in.Lines {
		item, err := b.catalog.GetItem(ctx, line.ItemID, types[i])
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil, domain.NewErrorf(domain.ErrCodeNotFound, "%s %s not found", types[i], line.ItemID)
			}
			return nil, err
		}

		// Build-time pre-check only; the authoritative check happens in the
		// ledger when stock is actually committed.
		if item.Type == domain.ItemTypeProduct {
			hasProduct = true
			if item.Stock < line.Quantity {
				return nil, domain.NewErrorf(domain.ErrCodeInsufficientStock,
					"not enough stock for %s: available %d, requested %d", item.Name, item.Stock, line.Quantity)
			}
		}

		lines = append(lines, domain.OrderLine{
			ItemID:     item.ID,
			ItemType:   item.Type,
			Name:       item.Name,
			Image:      item.Image,
			Quantity:   line.Quantity,
			PriceCents: item.PriceCents,
			SellerID:   item.SellerID,
		})
		totalCents += item.PriceCents * int64(line.Quantity)
	}

	var shipping *domain.Address
	if hasProduct {
		if !in.ShippingAddress.Complete() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "a complete shipping address is required for orders with products")
		}
		shipping = in.ShippingAddress
	}

	method := in.PaymentMethod
	if method == "" {
		method = domain.DefaultPaymentMethod
	}

	return &domain.Order{
		BuyerID:         buyer.ID,
		Items:           lines,
		TotalCents:      totalCents,
		Status:          domain.StatusPendingPayment,
		ShippingAddress: shipping,
		ServiceAddress:  in.ServiceAddress,
		ServiceDate:     in.ServiceDate,
		NotesToSeller:   in.NotesToSeller,
		Payment: domain.PaymentDetails{
			Method: method,
			Status: domain.PaymentPending,
		},
	}, nil
}
