package api

import (
	"fmt"
	"net/http"

	"campus-food/internal/apperr"
	"campus-food/internal/notify"
	"campus-food/internal/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// staffError reports err on the dashboard toast queue and the response
func (h *Handler) staffError(c *gin.Context, err error) {
	h.Sessions.Staff().Notifier().Push(notify.KindError, apperr.Message(err))
	h.respondError(c, err)
}

// staffOrders lists active orders. A status query also becomes the filter the
// refresh loop uses.
func (h *Handler) staffOrders(c *gin.Context) {
	staff := h.Sessions.Staff()
	if status, ok := c.GetQuery("status"); ok {
		if err := staff.SetStatusFilter(status); err != nil {
			h.respondError(c, err)
			return
		}
	}
	filter := staff.StatusFilter()
	orders, err := h.Kitchen.Orders(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter, "orders": orders})
}

func (h *Handler) staffOrder(c *gin.Context) {
	order, err := h.Kitchen.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) acceptOrder(c *gin.Context) {
	order, err := h.Kitchen.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.staffError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) completeOrder(c *gin.Context) {
	order, err := h.Kitchen.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.staffError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) staffStats(c *gin.Context) {
	stats, err := h.Kitchen.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) listInventory(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.Inventory.List(ctx, c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	low, err := h.Inventory.LowStock(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outletId": h.Inventory.OutletID(),
		"items":    items,
		"lowStock": low,
		"pending":  h.Sessions.Staff().Pending().Len(),
	})
}

func (h *Handler) toggleAvailability(c *gin.Context) {
	staff := h.Sessions.Staff()
	item, err := h.Inventory.Toggle(c.Request.Context(), staff.Pending(), c.Param("itemId"))
	if err != nil {
		h.staffError(c, err)
		return
	}
	staff.Notifier().Push(notify.KindSuccess, fmt.Sprintf("%s is now %s", item.Name, item.AvailabilityStatus))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) saveInventory(c *gin.Context) {
	staff := h.Sessions.Staff()
	result, err := h.Inventory.Save(c.Request.Context(), staff.Pending())
	if err != nil {
		h.staffError(c, err)
		return
	}
	kind := notify.KindSuccess
	if result.Saved == 0 {
		kind = notify.KindInfo
	}
	staff.Notifier().Push(kind, result.Message)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) analytics(c *gin.Context) {
	analytics, err := h.Store.Analytics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (h *Handler) staffSwitchView(c *gin.Context) {
	staff := h.Sessions.Staff()
	view := router.View(c.Param("view"))
	if err := staff.SwitchTo(view); err != nil {
		h.respondError(c, err)
		return
	}
	if view == router.ViewOrders {
		if err := h.Refresher.Refresh(c.Request.Context()); err != nil {
			h.logger.Warn("Staff refresh on view switch failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"view": staff.CurrentView()})
}

// staffSnapshot returns the refresh loop's last result, refreshing once if
// the loop has not produced one yet
func (h *Handler) staffSnapshot(c *gin.Context) {
	snap := h.Refresher.Snapshot()
	if snap == nil {
		if err := h.Refresher.Refresh(c.Request.Context()); err != nil {
			h.respondError(c, err)
			return
		}
		snap = h.Refresher.Snapshot()
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) staffNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.Sessions.Staff().Notifier().Active()})
}
