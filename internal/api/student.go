package api

import (
	"errors"
	"net/http"
	"strconv"

	"campus-food/internal/apperr"
	"campus-food/internal/cart"
	"campus-food/internal/catalog"
	"campus-food/internal/models"
	"campus-food/internal/ordering"
	"campus-food/internal/router"
	"campus-food/internal/session"

	"github.com/gin-gonic/gin"
)

type sessionResponse struct {
	ID             string           `json:"id"`
	View           router.View      `json:"view"`
	Selection      router.Selection `json:"selection"`
	Theme          models.Theme     `json:"theme"`
	CartCount      int              `json:"cartCount"`
	CurrentOrderID string           `json:"currentOrderId,omitempty"`
}

type addItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Decision string `json:"decision"`
}

type updateItemRequest struct {
	Delta         *int    `json:"delta"`
	Customization *string `json:"customization"`
}

type openViewRequest struct {
	OutletID string `json:"outletId"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

// student resolves the :sid parameter, restoring the session if needed
func (h *Handler) student(c *gin.Context) (*session.Student, bool) {
	s, err := h.Sessions.Open(c.Request.Context(), c.Param("sid"))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) sessionState(c *gin.Context, s *session.Student) sessionResponse {
	view, sel := s.View()
	resp := sessionResponse{
		ID:             s.ID,
		View:           view,
		Selection:      sel,
		Theme:          s.Theme(),
		CurrentOrderID: s.CurrentOrderID(),
	}
	if cv, err := s.Cart(c.Request.Context()); err == nil {
		resp.CartCount = cv.Count
	}
	return resp
}

func (h *Handler) createSession(c *gin.Context) {
	s, err := h.Sessions.Create(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.sessionState(c, s))
}

func (h *Handler) getSession(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sessionState(c, s))
}

func (h *Handler) listOutlets(c *gin.Context) {
	outlets, err := h.Store.Outlets(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outlets": outlets})
}

func (h *Handler) outletMenu(c *gin.Context) {
	ctx := c.Request.Context()
	outlet, err := h.Store.OutletByID(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	items, err := h.Store.MenuByOutlet(ctx, outlet.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	category := c.DefaultQuery("category", "all")
	c.JSON(http.StatusOK, gin.H{
		"outlet":     outlet,
		"categories": catalog.Categories(items),
		"category":   category,
		"items":      catalog.FilterByCategory(items, category),
	})
}

// switchView shows a view; the menu view needs an outletId in the body
func (h *Handler) switchView(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	view := router.View(c.Param("view"))

	var err error
	if view == router.ViewMenu {
		var req openViewRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.OutletID == "" {
			h.respondError(c, apperr.Validation("api.switchView", "outletId is required to open a menu"))
			return
		}
		err = s.OpenMenu(c.Request.Context(), req.OutletID)
	} else {
		err = s.SwitchTo(view)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionState(c, s))
}

func (h *Handler) back(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	s.Back()
	c.JSON(http.StatusOK, h.sessionState(c, s))
}

func (h *Handler) sessionMenu(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	menu, err := s.Menu(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *Handler) selectCategory(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.SelectCategory(req.Category); err != nil {
		h.respondError(c, err)
		return
	}
	h.sessionMenu(c)
}

func (h *Handler) search(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	results, err := s.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, _ := s.View()
	c.JSON(http.StatusOK, gin.H{"view": view, "results": results})
}

func (h *Handler) getCart(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	view, err := s.Cart(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) cartPreview(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", "3"))
	if err != nil || n < 0 {
		h.respondError(c, apperr.Validation("api.cartPreview", "n must be a non-negative integer"))
		return
	}
	preview, err := s.CartPreview(c.Request.Context(), n)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Handler) clearCart(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	if err := s.ClearCart(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	h.getCart(c)
}

// addCartItem answers a cross-outlet add with 409 and outcome
// needs_confirmation; the client repeats the call with decision confirm or cancel
func (h *Handler) addCartItem(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	decision, err := cart.ParseDecision(req.Decision)
	if err != nil {
		h.respondError(c, err)
		return
	}

	outcome, err := s.AddToCart(c.Request.Context(), req.ItemID, decision)
	if errors.Is(err, apperr.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{
			"outcome": outcome,
			"error":   apperr.Message(err),
		})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := s.Cart(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "cart": view})
}

func (h *Handler) updateCartItem(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Delta == nil && req.Customization == nil {
		h.respondError(c, apperr.Validation("api.updateCartItem", "delta or customization is required"))
		return
	}

	if err := s.UpdateLine(c.Request.Context(), c.Param("itemId"), req.Delta, req.Customization); err != nil {
		h.respondError(c, err)
		return
	}
	h.getCart(c)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	if err := s.RemoveFromCart(c.Request.Context(), c.Param("itemId")); err != nil {
		h.respondError(c, err)
		return
	}
	h.getCart(c)
}

func (h *Handler) checkout(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	var req ordering.Checkout
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	order, err := h.Sessions.Checkout(c.Request.Context(), s, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) currentOrder(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	orderID := s.CurrentOrderID()
	if orderID == "" {
		h.respondError(c, apperr.NotFound("api.currentOrder", "current order", "for session "+s.ID))
		return
	}
	order, err := h.Orders.Track(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) history(c *gin.Context) {
	if _, ok := h.student(c); !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.Store.CurrentUser(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	orders, err := h.Orders.History(ctx, user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) toggleTheme(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	theme, err := s.ToggleTheme(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) studentNotifications(c *gin.Context) {
	s, ok := h.student(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": s.Notifier().Active()})
}
