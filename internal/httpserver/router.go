package httpserver

import (
	"context"
	"log"

	"dataco-storefront/internal/domain"
	cartsvc "dataco-storefront/internal/service/cart"
	checkoutsvc "dataco-storefront/internal/service/checkout"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles the collaborators the handlers need. Each is a small local
// interface so tests can swap in stubs.
type Deps struct {
	CustomerRepo customerRepo
	CartSvc      cartService
	CheckoutSvc  checkoutService
	DeliverySvc  deliveryService
	OrderRepo    orderReader
	GeoResolver  geoResolver
}

type customerRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type cartService interface {
	View(ctx context.Context, customerID int64) (*domain.Cart, []domain.CartLineView, error)
	AddToCart(ctx context.Context, customerID, productID int64, quantity int) (*cartsvc.AddResult, error)
	UpdateQuantity(ctx context.Context, customerID, itemID int64, quantity int) (string, error)
	ToggleSelect(ctx context.Context, customerID, itemID int64, selected bool) error
	RemoveItem(ctx context.Context, customerID, itemID int64) error
	Count(ctx context.Context, customerID int64) (int, error)
}

type checkoutService interface {
	View(ctx context.Context, customerID int64) ([]domain.CartLineView, error)
	Process(ctx context.Context, customerID int64, in checkoutsvc.ShippingInput) (int64, error)
}

type deliveryService interface {
	Confirm(ctx context.Context, customerID, orderID int64) (string, error)
	Cancel(ctx context.Context, customerID, orderID int64) error
}

type orderReader interface {
	ListByCustomer(ctx context.Context, customerID int64, page, pageSize int) ([]domain.Order, int, error)
	GetDetail(ctx context.Context, orderID, customerID int64) (*domain.Order, error)
}

type geoResolver interface {
	Resolve(ctx context.Context, country string) (region, market string)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api", customerMiddleware(deps.CustomerRepo))
	{
		api.GET("/cart", h.cartView)
		api.GET("/cart/count", h.cartCount)
		api.POST("/cart/items", h.addToCart)
		api.POST("/cart/items/:id/quantity", h.updateQuantity)
		api.POST("/cart/items/:id/select", h.toggleSelect)
		api.DELETE("/cart/items/:id", h.removeItem)

		api.GET("/checkout", h.checkoutView)
		api.POST("/checkout", h.processCheckout)

		api.GET("/orders", h.listOrders)
		api.GET("/orders/:id", h.orderDetail)
		api.POST("/orders/:id/confirm-delivery", h.confirmDelivery)
		api.POST("/orders/:id/cancel", h.cancelOrder)

		api.GET("/geo/region-market", h.regionMarket)
	}

	return router
}
