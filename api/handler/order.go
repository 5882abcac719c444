package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/marketgo/backend/api/transport"
	"github.com/marketgo/backend/domain"
	"github.com/marketgo/backend/pkg/httpcontext"
	orderUC "github.com/marketgo/backend/usecase/order"
)

type OrderHandler struct {
	baseHandler
	uc *orderUC.UseCase
}

func NewOrderHandler(uc *orderUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Place an order
// @Tags orders
// @Router /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	input, ok := h.parseCreateOrder(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateOrder(stdCtx, actor, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List the buyer's own orders
// @Tags orders
// @Router /api/v1/orders/my-orders [get]
func (h *OrderHandler) MyOrders(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.uc.ListForBuyer(stdCtx, actor,
		parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		parseInt(string(ctx.QueryArgs().Peek("offset")), 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, orders)
}

// @Summary List orders containing the seller's items
// @Tags orders
// @Router /api/v1/orders/my-sales [get]
func (h *OrderHandler) MySales(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.uc.ListForSeller(stdCtx, actor,
		parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		parseInt(string(ctx.QueryArgs().Peek("offset")), 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, orders)
}

// @Summary Get an order by id
// @Tags orders
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing order id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	o, err := h.uc.GetOrder(stdCtx, actor, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, o)
}

// @Summary List an order's audit trail
// @Tags orders
// @Router /api/v1/orders/{id}/events [get]
func (h *OrderHandler) OrderEvents(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing order id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.ListEvents(stdCtx, actor, id,
		parseInt(string(ctx.QueryArgs().Peek("limit")), 50))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

// @Summary Update an order's status
// @Tags orders
// @Router /api/v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing order id", nil))
		return
	}

	var req transport.UpdateStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.Status == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "new order status is required", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateStatus(stdCtx, actor, id, req.Status, req.CancellationReason)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *OrderHandler) parseCreateOrder(ctx *fasthttp.RequestCtx) (orderUC.CreateOrderInput, bool) {
	var req transport.CreateOrderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return orderUC.CreateOrderInput{}, false
	}

	lines := make([]orderUC.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, orderUC.LineInput{
			ItemID:   item.ItemID,
			ItemType: item.ItemType,
			Quantity: item.Quantity,
		})
	}

	var serviceDate *time.Time
	if req.ServiceDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ServiceDate)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "service_date must be an RFC 3339 timestamp", nil))
			return orderUC.CreateOrderInput{}, false
		}
		serviceDate = &parsed
	}

	return orderUC.CreateOrderInput{
		Lines:           lines,
		ShippingAddress: toAddress(req.ShippingAddress),
		ServiceAddress:  toAddress(req.ServiceAddress),
		ServiceDate:     serviceDate,
		NotesToSeller:   req.NotesToSeller,
		PaymentMethod:   req.PaymentMethod,
	}, true
}

func toAddress(in *transport.AddressInput) *domain.Address {
	if in == nil {
		return nil
	}
	return &domain.Address{
		Street:      in.Street,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
		Country:     in.Country,
		PhoneNumber: in.PhoneNumber,
	}
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
