package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/internal/infrastructure/buffer"
	"github.com/fastygo/gac-shell/usecase"
)

// BufferBridge turns deferred work order writes into buffer items.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferWorkOrder(ctx context.Context, operation string, order *domain.WorkOrder) error {
	if b.processor == nil || order == nil || order.ID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return b.processor.Enqueue(ctx, buffer.Item{
		SubjectID: order.ID,
		Entity:    buffer.EntityWorkOrder,
		Operation: operation,
		Data:      payload,
	})
}

var _ usecase.WorkOrderBuffer = (*BufferBridge)(nil)
