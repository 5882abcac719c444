package domain

// Roles recognized by the order subsystem. Identity verification happens
// upstream; the actor arrives already authenticated.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
