package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/internal/infrastructure/buffer"
	"github.com/marketgo/backend/usecase"
)

// EventBridge adapts the recorder to the use-case event port.
type EventBridge struct {
	recorder *EventRecorder
}

func NewEventBridge(recorder *EventRecorder) *EventBridge {
	return &EventBridge{recorder: recorder}
}

func (b *EventBridge) Record(ctx context.Context, event *domain.OrderEvent) error {
	if b.recorder == nil || event == nil {
		return domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	item := buffer.Item{
		ID:      event.ID,
		OrderID: event.OrderID,
		Kind:    event.Kind,
		ActorID: event.ActorID,
		Payload: event.Payload,
		// One priority for every order event: the buffer drains in emit
		// order, and the emit timestamp travels with the item so the trail
		// reads back in lifecycle order after a backlog.
		Priority:  3,
		Timestamp: time.Now(),
	}
	return b.recorder.RecordOrBuffer(ctx, item)
}

var _ usecase.EventSink = (*EventBridge)(nil)
