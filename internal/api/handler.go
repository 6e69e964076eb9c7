package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-food/internal/apperr"
	"campus-food/internal/catalog"
	"campus-food/internal/inventory"
	"campus-food/internal/kitchen"
	"campus-food/internal/ordering"
	"campus-food/internal/session"
	"campus-food/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services are the collaborators the handlers render
type Services struct {
	Store     catalog.DataStore
	Sessions  *session.Manager
	Orders    *ordering.Service
	Kitchen   *kitchen.Service
	Inventory *inventory.Service
	Refresher *kitchen.Refresher
}

// Handler contains HTTP handlers
type Handler struct {
	Services
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	return &Handler{Services: services, logger: util.Named("api")}
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
		v1.GET("/outlets", h.listOutlets)
		v1.GET("/outlets/:id/menu", h.outletMenu)

		v1.POST("/sessions", h.createSession)
		s := v1.Group("/sessions/:sid")
		{
			s.GET("", h.getSession)
			s.POST("/views/:view", h.switchView)
			s.POST("/back", h.back)
			s.GET("/menu", h.sessionMenu)
			s.PUT("/menu/category", h.selectCategory)
			s.GET("/search", h.search)

			s.GET("/cart", h.getCart)
			s.GET("/cart/preview", h.cartPreview)
			s.DELETE("/cart", h.clearCart)
			s.POST("/cart/items", h.addCartItem)
			s.PATCH("/cart/items/:itemId", h.updateCartItem)
			s.DELETE("/cart/items/:itemId", h.removeCartItem)

			s.POST("/checkout", h.checkout)
			s.GET("/orders/current", h.currentOrder)
			s.GET("/history", h.history)
			s.POST("/theme/toggle", h.toggleTheme)
			s.GET("/notifications", h.studentNotifications)
		}

		staff := v1.Group("/staff")
		{
			staff.GET("/orders", h.staffOrders)
			staff.GET("/orders/:id", h.staffOrder)
			staff.POST("/orders/:id/accept", h.acceptOrder)
			staff.POST("/orders/:id/complete", h.completeOrder)
			staff.GET("/stats", h.staffStats)
			staff.GET("/inventory", h.listInventory)
			staff.POST("/inventory/:itemId/toggle", h.toggleAvailability)
			staff.POST("/inventory/save", h.saveInventory)
			staff.GET("/analytics", h.analytics)
			staff.POST("/views/:view", h.staffSwitchView)
			staff.GET("/snapshot", h.staffSnapshot)
			staff.GET("/notifications", h.staffNotifications)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the data store answers
func (h *Handler) readinessCheck(c *gin.Context) {
	if _, err := h.Store.Outlets(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps domain error kinds to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
		return
	}
	c.JSON(status, gin.H{
		"error":   apperr.Message(err),
		"details": err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
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
