package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/marketgo/backend/pkg/httpcontext"
	"github.com/marketgo/backend/repository"
)

type CatalogHandler struct {
	baseHandler
	catalog repository.CatalogStore
}

func NewCatalogHandler(catalog repository.CatalogStore, adapter *httpcontext.Adapter, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		baseHandler: newBaseHandler(adapter, logger),
		catalog:     catalog,
	}
}

// @Summary List products
// @Tags catalog
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.catalog.ListProducts(stdCtx,
		parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		parseInt(string(ctx.QueryArgs().Peek("offset")), 0))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, items)
}
