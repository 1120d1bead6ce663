package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/gac-shell/api/transport"
	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/pkg/httpcontext"
	"github.com/fastygo/gac-shell/repository"
	workOrderUC "github.com/fastygo/gac-shell/usecase/workorder"
)

type WorkOrderHandler struct {
	baseHandler
	uc *workOrderUC.UseCase
}

func NewWorkOrderHandler(uc *workOrderUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List work orders
// @Tags work-orders
// @Router /api/v1/work-orders [get]
func (h *WorkOrderHandler) List(ctx *fasthttp.RequestCtx) {
	filter := repository.WorkOrderFilter{
		Status: domain.WorkOrderStatus(ctx.QueryArgs().Peek("status")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.uc.ListWorkOrders(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(orders, transport.ListMeta{
		Count:  len(orders),
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Status: string(filter.Status),
	}))
}

// @Summary Get work order
// @Tags work-orders
// @Router /api/v1/work-orders/{id} [get]
func (h *WorkOrderHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := h.uc.GetWorkOrder(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, order)
}

// @Summary Create work order
// @Tags work-orders
// @Router /api/v1/work-orders [post]
func (h *WorkOrderHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.WorkOrderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	order := &domain.WorkOrder{
		ID:          req.ID,
		AssetID:     req.AssetID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.WorkOrderStatus(req.Status),
		Priority:    req.Priority,
		Metadata:    req.Metadata,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateWorkOrder(stdCtx, order)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.log(stdCtx).Info("work order created",
		zap.String("work_order_id", created.ID),
		zap.String("status", string(created.Status)),
	)
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Change work order status
// @Tags work-orders
// @Router /api/v1/work-orders/{id}/status [patch]
func (h *WorkOrderHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req transport.WorkOrderStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Status == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateStatus(stdCtx, id, domain.WorkOrderStatus(req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete work order
// @Tags work-orders
// @Router /api/v1/work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteWorkOrder(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *WorkOrderHandler) pathID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing work order id")
		return "", false
	}
	return id, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
