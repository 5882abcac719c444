package usecase

import (
	"context"

	"github.com/marketgo/backend/domain"
)

// EventSink abstracts the best-effort audit recorder so use cases stay
// storage-agnostic. Implementations must never let a recording failure leak
// into the caller's result.
type EventSink interface {
	Record(ctx context.Context, event *domain.OrderEvent) error
}
