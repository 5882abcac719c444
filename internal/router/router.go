package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/marketgo/backend/api/handler"
)

type Handlers struct {
	Order   *apiHandler.OrderHandler
	Catalog *apiHandler.CatalogHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Catalog routes
	r.GET("/api/v1/products", handlers.Catalog.ListProducts)

	// Protected routes
	r.POST("/api/v1/orders", authMiddleware(handlers.Order.CreateOrder))
	r.GET("/api/v1/orders/my-orders", authMiddleware(handlers.Order.MyOrders))
	r.GET("/api/v1/orders/my-sales", authMiddleware(handlers.Order.MySales))
	r.GET("/api/v1/orders/{id}", authMiddleware(handlers.Order.GetOrder))
	r.GET("/api/v1/orders/{id}/events", authMiddleware(handlers.Order.OrderEvents))
	r.PATCH("/api/v1/orders/{id}/status", authMiddleware(handlers.Order.UpdateStatus))

	return r
}
