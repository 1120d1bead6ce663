package repository

import (
	"context"

	"github.com/fastygo/gac-shell/domain"
)

type WorkOrderFilter struct {
	Status domain.WorkOrderStatus
	Limit  int
	Offset int
}

type WorkOrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
	Create(ctx context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error)
	UpdateStatus(ctx context.Context, id string, status domain.WorkOrderStatus) (*domain.WorkOrder, error)
	Delete(ctx context.Context, id string) error
}

// WorkOrderListCache stores the full work order list shared between console instances.
type WorkOrderListCache interface {
	Get(ctx context.Context) ([]domain.WorkOrder, bool, error)
	Set(ctx context.Context, orders []domain.WorkOrder) error
	Invalidate(ctx context.Context) error
}
