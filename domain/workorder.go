package domain

import "time"

// WorkOrderStatus is the lifecycle state of a maintenance work order.
type WorkOrderStatus string

const (
	StatusPendente    WorkOrderStatus = "pendente"
	StatusEmAndamento WorkOrderStatus = "em_andamento"
	StatusConcluida   WorkOrderStatus = "concluida"
	StatusCancelada   WorkOrderStatus = "cancelada"
)

// IsPending reports whether the status still requires attention.
func (s WorkOrderStatus) IsPending() bool {
	return s == StatusPendente || s == StatusEmAndamento
}

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case StatusPendente, StatusEmAndamento, StatusConcluida, StatusCancelada:
		return true
	}
	return false
}

// WorkOrder represents a maintenance task ("ordem de serviço") raised against an asset.
type WorkOrder struct {
	ID          string            `json:"id"`
	AssetID     string            `json:"asset_id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      WorkOrderStatus   `json:"status"`
	Priority    int               `json:"priority"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CountPending counts the orders whose status is pendente or em_andamento.
func CountPending(orders []WorkOrder) int {
	count := 0
	for i := range orders {
		if orders[i].Status.IsPending() {
			count++
		}
	}
	return count
}
