package router

import (
	"github.com/awestore/backend/internal/interfaces/http/handler"
	"github.com/awestore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers collects the handler set the router mounts
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Customer *handler.CustomerHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Tracking *handler.TrackingHandler
}

// Router mounts the API routes on a gin engine. Authentication itself is
// handled by the JWT middleware installed on the engine; the router only
// decides which group a route belongs to and gates the admin surface.
type Router struct {
	engine   *gin.Engine
	handlers Handlers
}

// New creates a Router for the given engine and handler set
func New(engine *gin.Engine, handlers Handlers) *Router {
	return &Router{
		engine:   engine,
		handlers: handlers,
	}
}

// Setup registers all routes
func (r *Router) Setup() {
	r.engine.GET("/health", r.handlers.System.Health)
	r.engine.GET("/ping", r.handlers.System.Ping)

	api := r.engine.Group("/api")
	r.registerAuthRoutes(api)
	r.registerCatalogRoutes(api)
	r.registerStorefrontRoutes(api)
	r.registerAdminRoutes(api)
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/register", r.handlers.Auth.Register)
	auth.POST("/login", r.handlers.Auth.Login)
	auth.POST("/refresh", r.handlers.Auth.Refresh)
	auth.POST("/logout", r.handlers.Auth.Logout)
	auth.GET("/me", r.handlers.Auth.Me)
	auth.PUT("/password", r.handlers.Auth.ChangePassword)
}

// registerCatalogRoutes mounts the public browse surface. These paths
// are on the JWT skip list, so they work anonymously.
func (r *Router) registerCatalogRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	products.GET("", r.handlers.Product.List)
	products.GET("/:id", r.handlers.Product.GetByID)
	products.GET("/category/:category", r.handlers.Product.ListByCategory)

	categories := api.Group("/categories")
	categories.GET("", r.handlers.Category.List)
	categories.GET("/:slug", r.handlers.Category.GetBySlug)

	api.GET("/tracking/number/:number", r.handlers.Tracking.GetByOrderNumber)
	api.GET("/tracking/estimate/:number", r.handlers.Tracking.GetDeliveryEstimate)
}

// registerStorefrontRoutes mounts the signed-in customer surface
func (r *Router) registerStorefrontRoutes(api *gin.RouterGroup) {
	cart := api.Group("/cart")
	cart.GET("", r.handlers.Cart.Get)
	cart.DELETE("", r.handlers.Cart.Clear)
	cart.POST("/items", r.handlers.Cart.AddItem)
	cart.PUT("/items/:productId", r.handlers.Cart.UpdateQuantity)
	cart.DELETE("/items/:productId", r.handlers.Cart.RemoveItem)
	cart.PATCH("/items/:productId/selection", r.handlers.Cart.UpdateSelection)
	cart.PATCH("/selection", r.handlers.Cart.SelectAll)

	orders := api.Group("/orders")
	orders.POST("", r.handlers.Order.Create)
	orders.GET("", r.handlers.Order.ListMine)
	orders.GET("/:id", r.handlers.Order.GetByID)
	orders.GET("/number/:number", r.handlers.Order.GetByNumber)
	orders.POST("/:id/cancel", r.handlers.Order.Cancel)

	tracking := api.Group("/tracking")
	tracking.GET("", r.handlers.Tracking.ListMine)
	tracking.GET("/order/:orderId", r.handlers.Tracking.GetByOrderID)

	customers := api.Group("/customers")
	customers.GET("/me", r.handlers.Customer.GetProfile)
	customers.PUT("/me", r.handlers.Customer.UpdateProfile)
	customers.PUT("/me/address", r.handlers.Customer.SetDefaultAddress)
}

// registerAdminRoutes mounts the management surface behind the admin
// role gate
func (r *Router) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", middleware.RequireAdmin())

	products := admin.Group("/products")
	products.POST("", r.handlers.Product.Create)
	products.PUT("/:id", r.handlers.Product.Update)
	products.PATCH("/:id/price", r.handlers.Product.UpdatePrice)
	products.PATCH("/:id/stock", r.handlers.Product.UpdateStock)
	products.POST("/:id/activate", r.handlers.Product.Activate)
	products.POST("/:id/deactivate", r.handlers.Product.Deactivate)
	products.DELETE("/:id", r.handlers.Product.Delete)
	products.POST("/:id/images", r.handlers.Product.RequestImageUpload)
	products.DELETE("/:id/images", r.handlers.Product.RemoveImage)

	categories := admin.Group("/categories")
	categories.POST("", r.handlers.Category.Create)
	categories.PUT("/:id", r.handlers.Category.Update)
	categories.POST("/:id/activate", r.handlers.Category.Activate)
	categories.POST("/:id/deactivate", r.handlers.Category.Deactivate)
	categories.DELETE("/:id", r.handlers.Category.Delete)

	orders := admin.Group("/orders")
	orders.GET("", r.handlers.Order.List)
	orders.GET("/summary", r.handlers.Order.StatusSummary)
	orders.PATCH("/:id/status", r.handlers.Order.UpdateStatus)
	orders.POST("/:id/refund", r.handlers.Order.Refund)
	orders.POST("/:id/archive", r.handlers.Order.Archive)
	orders.DELETE("/:id", r.handlers.Order.Delete)

	tracking := admin.Group("/tracking")
	tracking.POST("/order/:orderId/events", r.handlers.Tracking.AppendEvent)
	tracking.PUT("/order/:orderId/carrier", r.handlers.Tracking.SetCarrier)

	admin.GET("/customers", r.handlers.Customer.List)
}
