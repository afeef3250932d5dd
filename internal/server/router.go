package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quickcart/internal/controller"
	"quickcart/internal/middleware"
)

type Controllers struct {
	Orders    *controller.OrderController
	Checkout  *controller.CheckoutController
	Addresses *controller.AddressController
	Catalog   *controller.CatalogController
	Auth      *controller.AuthController
}

func NewRouter(ctl Controllers, auth middleware.TokenValidator, origins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rutas públicas
	r.POST("/auth/otp/send", ctl.Auth.SendOTP)
	r.POST("/auth/otp/verify", ctl.Auth.VerifyOTP)

	catalog := r.Group("/catalog")
	catalog.GET("/categories", ctl.Catalog.Categories)
	catalog.GET("/products", ctl.Catalog.Products)
	catalog.GET("/offers", ctl.Catalog.Offers)
	catalog.GET("/banners", ctl.Catalog.Banners)

	r.POST("/checkout/quote", ctl.Checkout.Quote)

	// Invitado o logueado
	guest := r.Group("/")
	guest.Use(middleware.OptionalAuth(auth))
	guest.POST("/checkout", ctl.Checkout.PlaceOrder)
	guest.GET("/addresses", ctl.Addresses.List)
	guest.POST("/addresses", ctl.Addresses.Create)
	guest.PUT("/addresses/:id", ctl.Addresses.Update)
	guest.DELETE("/addresses/:id", ctl.Addresses.Delete)

	// Rutas protegidas (requieren token)
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(auth))
	authed.GET("/orders/mine", ctl.Orders.GetMyOrders)
	authed.GET("/orders/:orderId", ctl.Orders.GetOrder)
	authed.GET("/orders/:orderId/timeline", ctl.Orders.GetTimeline)
	authed.GET("/orders/:orderId/invoice", ctl.Orders.GetInvoice)
	authed.PUT("/orders/:orderId/cancel", ctl.Orders.CancelOrder)

	// Rutas admin
	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", ctl.Orders.GetAllOrders)
	admin.GET("/orders/stats", ctl.Orders.GetStats)
	admin.GET("/orders/export", ctl.Orders.Export)
	admin.PUT("/orders/:orderId/status", ctl.Orders.UpdateStatus)
	admin.GET("/statuses", ctl.Orders.GetStatuses)
	admin.POST("/catalog/:resource", ctl.Catalog.Create)
	admin.PUT("/catalog/:resource/:id", ctl.Catalog.Update)
	admin.DELETE("/catalog/:resource/:id", ctl.Catalog.Delete)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.GuestSessionHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.GuestSessionHeader, middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
