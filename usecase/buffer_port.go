package usecase

import (
	"context"

	"github.com/fastygo/gac-shell/domain"
)

// Work order operations that can be deferred to the write buffer.
const (
	OperationCreate       = "create"
	OperationUpdateStatus = "update_status"
	OperationDelete       = "delete"
)

// WorkOrderBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type WorkOrderBuffer interface {
	BufferWorkOrder(ctx context.Context, operation string, order *domain.WorkOrder) error
}
