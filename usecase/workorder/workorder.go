package workorder

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/internal/metrics"
	"github.com/fastygo/gac-shell/repository"
	"github.com/fastygo/gac-shell/usecase"
)

// Invalidator is told about every accepted write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type UseCase struct {
	orders      repository.WorkOrderRepository
	buffer      usecase.WorkOrderBuffer
	invalidator Invalidator
	clock       clockwork.Clock
	logger      *zap.Logger
}

func New(orders repository.WorkOrderRepository, buffer usecase.WorkOrderBuffer, invalidator Invalidator, clock clockwork.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &UseCase{
		orders:      orders,
		buffer:      buffer,
		invalidator: invalidator,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *UseCase) ListWorkOrders(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return uc.orders.List(ctx, filter)
}

func (uc *UseCase) GetWorkOrder(ctx context.Context, id string) (*domain.WorkOrder, error) {
	return uc.orders.GetByID(ctx, id)
}

// CreateWorkOrder stores a new order. New orders start as pendente unless a status is given.
func (uc *UseCase) CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	if order == nil || strings.TrimSpace(order.Title) == "" {
		return nil, domain.ErrInvalidPayload
	}
	if order.Status == "" {
		order.Status = domain.StatusPendente
	}
	if !order.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := uc.clock.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	created, err := uc.orders.Create(ctx, order)
	if err != nil {
		if !bufferable(err) || !uc.shouldBuffer(ctx, usecase.OperationCreate, order) {
			return nil, err
		}
		created = order
	}
	uc.invalidate(ctx)
	return created, nil
}

func (uc *UseCase) UpdateStatus(ctx context.Context, id string, status domain.WorkOrderStatus) (*domain.WorkOrder, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	updated, err := uc.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		if !bufferable(err) {
			return nil, err
		}
		order := &domain.WorkOrder{ID: id, Status: status, UpdatedAt: uc.clock.Now()}
		if !uc.shouldBuffer(ctx, usecase.OperationUpdateStatus, order) {
			return nil, err
		}
		updated = order
	}
	uc.invalidate(ctx)
	return updated, nil
}

func (uc *UseCase) DeleteWorkOrder(ctx context.Context, id string) error {
	if err := uc.orders.Delete(ctx, id); err != nil {
		if !bufferable(err) {
			return err
		}
		if !uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.WorkOrder{ID: id}) {
			return err
		}
	}
	uc.invalidate(ctx)
	return nil
}

// bufferable reports whether err is a storage failure rather than a rejected request.
func bufferable(err error) bool {
	var dErr *domain.Error
	return !errors.As(err, &dErr)
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, order *domain.WorkOrder) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferWorkOrder(ctx, operation, order); err != nil {
		uc.logger.Error("failed to buffer work order operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	metrics.BufferedOperations.WithLabelValues(operation).Inc()
	uc.logger.Warn("work order operation buffered",
		zap.String("operation", operation),
		zap.String("work_order_id", order.ID),
	)
	return true
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx); err != nil {
		uc.logger.Warn("work order list invalidation incomplete", zap.Error(err))
	}
}
