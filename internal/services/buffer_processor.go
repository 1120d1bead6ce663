package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/internal/infrastructure/buffer"
	"github.com/fastygo/gac-shell/internal/metrics"
	"github.com/fastygo/gac-shell/repository"
	"github.com/fastygo/gac-shell/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// Invalidator is notified once a drain applied at least one write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ProcessorConfig controls how frequently the buffer is drained and pruned.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor replays buffered work order writes once Postgres is reachable again.
type BufferProcessor struct {
	store       *buffer.Store
	monitor     ConnectionHealth
	orders      repository.WorkOrderRepository
	invalidator Invalidator
	logger      *zap.Logger
	cron        *cron.Cron
	cfg         ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	orders repository.WorkOrderRepository,
	invalidator Invalidator,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:       store,
		monitor:     monitor,
		orders:      orders,
		invalidator: invalidator,
		logger:      logger,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})
	_, _ = bp.cron.AddFunc("@hourly", bp.prune)

	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain to finish or ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch. Items that keep failing are dropped after MaxRetries.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	applied := 0
	for _, item := range items {
		if err := bp.apply(ctx, item); err != nil {
			bp.logger.Error("failed to replay buffered write",
				zap.String("item_id", item.ID),
				zap.String("work_order_id", item.SubjectID),
				zap.String("operation", item.Operation),
				zap.Error(err))

			item.Retries++
			if item.Retries >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffered write (max retries reached)", zap.String("item_id", item.ID))
				_ = bp.store.Remove(item)
				continue
			}
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue buffered write", zap.Error(err))
			}
			continue
		}

		applied++
		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge replayed write", zap.Error(err))
		}
	}

	metrics.BufferSize.Set(float64(bp.Size()))
	if applied > 0 && bp.invalidator != nil {
		if err := bp.invalidator.Invalidate(ctx); err != nil {
			bp.logger.Warn("work order list invalidation incomplete", zap.Error(err))
		}
	}
	return nil
}

// Enqueue parks a write that primary storage just rejected.
func (bp *BufferProcessor) Enqueue(_ context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}
	if err := bp.store.Enqueue(item); err != nil {
		return err
	}
	metrics.BufferSize.Set(float64(bp.Size()))
	return nil
}

func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) prune() {
	removed, err := bp.store.Cleanup(bp.cfg.Retention)
	if err != nil {
		bp.logger.Error("buffer cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		bp.logger.Warn("expired buffered writes discarded", zap.Int("count", removed))
	}
}

// apply replays one item. Replays are idempotent: an already created order or an
// already deleted one counts as applied.
func (bp *BufferProcessor) apply(ctx context.Context, item buffer.Item) error {
	if item.Entity != buffer.EntityWorkOrder {
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}

	var order domain.WorkOrder
	if err := json.Unmarshal(item.Data, &order); err != nil {
		return err
	}

	switch item.Operation {
	case usecase.OperationCreate:
		_, err := bp.orders.Create(ctx, &order)
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			return nil
		}
		return err
	case usecase.OperationUpdateStatus:
		_, err := bp.orders.UpdateStatus(ctx, order.ID, order.Status)
		return err
	case usecase.OperationDelete:
		err := bp.orders.Delete(ctx, order.ID)
		if errors.Is(err, domain.ErrWorkOrderNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unsupported operation %s", item.Operation)
	}
}
