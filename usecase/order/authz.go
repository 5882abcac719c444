package order

import "github.com/marketgo/backend/domain"

// CanView reports whether the actor may read the order: the buyer who placed
// it, any seller with a line in it, or an admin.
func CanView(o *domain.Order, actor domain.Actor) bool {
	if o == nil {
		return false
	}
	return actor.IsAdmin() || o.BuyerID == actor.ID || o.InvolvesSeller(actor.ID)
}

// CanMutateStatus reports whether the actor may drive the order's lifecycle:
// an involved seller or an admin. Buyers go through the cancellation flow,
// which is still seller/admin mediated at this boundary.
func CanMutateStatus(o *domain.Order, actor domain.Actor) bool {
	if o == nil {
		return false
	}
	return actor.IsAdmin() || o.InvolvesSeller(actor.ID)
}
