package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item is an order event waiting to be written to the audit store. Events sit
// here while Postgres is unavailable and are drained by the recorder.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Kind      string          `json:"kind"`
	ActorID   string          `json:"actor_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = 3
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
