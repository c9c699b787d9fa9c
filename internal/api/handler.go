package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"jewelshop/internal/service"
	"jewelshop/internal/session"
	"jewelshop/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	auth     *service.AuthService
	catalog  *service.CatalogService
	carts    *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	vendors  *service.VendorService
	sessions *session.Store
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	vendors *service.VendorService,
	sessions *session.Store,
) *Handler {
	return &Handler{
		auth:     auth,
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		orders:   orders,
		vendors:  vendors,
		sessions: sessions,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", h.login)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
	}

	authed := v1.Group("", h.requireAuth())
	{
		authed.POST("/auth/logout", h.logout)
		authed.POST("/cart", h.cart)
		authed.POST("/checkout", h.checkoutOrder)
		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)
		authed.POST("/orders/:id/status", h.updateOrderStatus)
		authed.POST("/orders/status/bulk", h.bulkUpdateOrderStatus)
	}

	vendor := authed.Group("/vendor", h.requireVendor())
	{
		vendor.GET("/orders", h.listVendorItems)
		vendor.POST("/orders/:id/status", h.updateVendorItemStatus)
		vendor.GET("/summary", h.vendorSummary)
	}

	admin := authed.Group("/admin")
	{
		admin.PUT("/products/:id/stock", h.setProductStock)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func idParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// respondError maps domain errors to HTTP responses. Internal causes are
// logged, never echoed.
func respondError(c *gin.Context, err error) {
	var verr service.ValidationErrors
	var stockErr *service.InsufficientStockError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  verr,
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"message":   fmt.Sprintf("Not enough stock available. Only %d items left.", stockErr.Available),
			"available": stockErr.Available,
		})
	case errors.Is(err, service.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "This product is out of stock",
		})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Your cart is empty. Add some products before checking out.",
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Not found",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You are not allowed to perform this action",
		})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Invalid status transition",
		})
	default:
		util.GetLogger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Something went wrong. Please try again.",
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
