package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/repository"
)

// StockLedger is the only component allowed to mutate catalog stock. The
// catalog contract is per-item with no cross-item transaction, so multi-line
// operations compensate explicitly when a later line fails.
type StockLedger struct {
	catalog repository.CatalogStore
	logger  *zap.Logger
}

func NewStockLedger(catalog repository.CatalogStore, logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{catalog: catalog, logger: logger}
}

// Reserve decrements stock for every product line, all or nothing. Service
// lines never touch stock. On any failure the decrements already applied in
// this call are rolled back before the error is returned.
func (l *StockLedger) Reserve(ctx context.Context, lines []domain.OrderLine) error {
	return l.adjustAll(ctx, lines, -1)
}

// Release returns previously reserved stock, all or nothing. The caller
// guards against double release via the order's payment state.
func (l *StockLedger) Release(ctx context.Context, lines []domain.OrderLine) error {
	return l.adjustAll(ctx, lines, +1)
}

func (l *StockLedger) adjustAll(ctx context.Context, lines []domain.OrderLine, sign int) error {
	var applied []domain.OrderLine
	for _, line := range lines {
		if line.ItemType != domain.ItemTypeProduct {
			continue
		}
		if err := l.catalog.AdjustStock(ctx, line.ItemID, sign*line.Quantity); err != nil {
			l.compensate(ctx, applied, -sign)
			return classifyAdjustError(err, line)
		}
		applied = append(applied, line)
	}
	return nil
}

// compensate undoes adjustments applied earlier in the same call. Failures are
// logged, not returned: the original error already aborts the operation.
func (l *StockLedger) compensate(ctx context.Context, applied []domain.OrderLine, sign int) {
	for _, line := range applied {
		if err := l.catalog.AdjustStock(ctx, line.ItemID, sign*line.Quantity); err != nil {
			l.logger.Error("stock compensation failed",
				zap.String("item_id", line.ItemID),
				zap.Int("delta", sign*line.Quantity),
				zap.Error(err))
		}
	}
}

func classifyAdjustError(err error, line domain.OrderLine) error {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInsufficientStock):
		return domain.NewErrorf(domain.ErrCodeInsufficientStock,
			"not enough stock for %s", line.Name)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return domain.NewErrorf(domain.ErrCodeStockAdjustment,
			"stock adjustment failed for %s: catalog item no longer exists", line.Name)
	default:
		return domain.WrapError(domain.ErrCodeStockAdjustment,
			"stock adjustment failed for "+line.Name, err)
	}
}
