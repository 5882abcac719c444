package domain

import (
	"encoding/json"
	"time"
)

// Order event kinds recorded on the audit trail.
const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
)

// OrderEvent is a best-effort audit record emitted after a core operation
// commits. Recording failures never affect the operation's result.
type OrderEvent struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Kind      string          `json:"kind"`
	ActorID   string          `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// StatusChangedPayload is the payload attached to status_changed events.
type StatusChangedPayload struct {
	From   Status `json:"from"`
	To     Status `json:"to"`
	Reason string `json:"reason,omitempty"`
}
