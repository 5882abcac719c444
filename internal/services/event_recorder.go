package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/internal/infrastructure/buffer"
	"github.com/marketgo/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RecorderConfig controls how frequently the event buffer is drained.
type RecorderConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// EventRecorder writes order events to the audit store, buffering them in
// Bolt while Postgres is unreachable and draining on a schedule.
type EventRecorder struct {
	store   *buffer.Store
	monitor ConnectionHealth
	events  repository.EventRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RecorderConfig
}

func NewEventRecorder(
	store *buffer.Store,
	monitor ConnectionHealth,
	events repository.EventRepository,
	logger *zap.Logger,
	cfg RecorderConfig,
) *EventRecorder {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	er := &EventRecorder{
		store:   store,
		monitor: monitor,
		events:  events,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = er.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := er.Drain(ctx); err != nil {
			er.logger.Error("event buffer drain failed", zap.Error(err))
		}
	})

	return er
}

// Start launches the cron scheduler.
func (er *EventRecorder) Start() {
	if er == nil || er.cron == nil {
		return
	}
	er.cron.Start()
	er.logger.Info("event recorder started")
}

// Stop gracefully stops the scheduler.
func (er *EventRecorder) Stop(ctx context.Context) {
	if er == nil || er.cron == nil {
		return
	}
	stopCtx := er.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	er.logger.Info("event recorder stopped")
}

// Drain writes buffered events to the audit store synchronously.
func (er *EventRecorder) Drain(ctx context.Context) error {
	if er == nil || er.store == nil {
		return nil
	}
	if er.monitor != nil && !er.monitor.IsOnline() {
		er.logger.Debug("skipping event drain (offline)")
		return nil
	}

	items, err := er.store.GetBatch(er.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := er.append(ctx, item); err != nil {
			er.logger.Error("failed to record buffered event",
				zap.String("event_id", item.ID),
				zap.String("order_id", item.OrderID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= er.cfg.MaxRetries {
				er.logger.Warn("dropping event (max retries reached)", zap.String("event_id", item.ID))
				_ = er.store.Remove(item)
				continue
			}

			if err := er.store.Remove(item); err != nil {
				er.logger.Warn("failed to remove buffered event", zap.Error(err))
			}
			if err := er.store.Requeue(item); err != nil {
				er.logger.Error("failed to requeue buffered event", zap.Error(err))
			}
			continue
		}

		if err := er.store.Remove(item); err != nil {
			er.logger.Warn("failed to purge recorded event", zap.Error(err))
		}
	}
	return nil
}

// RecordOrBuffer attempts to write the event immediately and falls back to
// persisting it in the buffer.
func (er *EventRecorder) RecordOrBuffer(ctx context.Context, item buffer.Item) error {
	if er == nil || er.store == nil {
		return fmt.Errorf("event recorder not configured")
	}

	if er.monitor == nil || er.monitor.IsOnline() {
		if err := er.append(ctx, item); err == nil {
			return nil
		} else {
			er.logger.Warn("immediate event write failed, buffering", zap.Error(err))
		}
	}
	return er.store.Enqueue(item)
}

// Size returns the number of buffered events.
func (er *EventRecorder) Size() int {
	if er == nil || er.store == nil {
		return 0
	}
	size, err := er.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (er *EventRecorder) append(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return er.events.Append(ctx, &domain.OrderEvent{
		ID:        item.ID,
		OrderID:   item.OrderID,
		Kind:      item.Kind,
		ActorID:   item.ActorID,
		Payload:   item.Payload,
		CreatedAt: item.Timestamp,
	})
}
