package api

import (
	"log"
	"net/http"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/kidsparadise/kp-erp/internal/apierrors"
	"github.com/kidsparadise/kp-erp/internal/woo"
)

// dayBound converts a YYYY-MM-DD form value into a store API datetime,
// anchored to the start or end of that day. Returns "" for empty or
// malformed input.
func dayBound(raw string, endOfDay bool) string {
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return ""
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Second)
	}
	return day.Format(wooTime)
}

// OrderList renders the orders page, filtered by status and date range.
func (h *Handlers) OrderList(c *gin.Context) {
	q := woo.OrdersQuery{
		Status: c.Query("status"),
		After:  dayBound(c.Query("from"), false),
		Before: dayBound(c.Query("to"), true),
	}

	orders, err := h.store.Orders(c.Request.Context(), q)
	if err != nil {
		log.Printf("orders: list: %v", err)
		orders = nil
	}

	h.renderer.HTML(c, http.StatusOK, "pages/orders.html", pongo2.Context{
		"Title":    "Orders",
		"Orders":   orders,
		"Statuses": woo.OrderStatuses,
		"Status":   q.Status,
		"From":     c.Query("from"),
		"To":       c.Query("to"),
	})
}

// OrderDetail renders a single order with its line items and addresses.
func (h *Handlers) OrderDetail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := h.store.Order(c.Request.Context(), id)
	if err != nil {
		log.Printf("orders: fetch %d: %v", id, err)
		apierrors.Error(c, apierrors.CodeCatalogUnavailable)
		return
	}
	if order == nil {
		apierrors.Error(c, apierrors.CodeOrderNotFound)
		return
	}

	h.renderer.HTML(c, http.StatusOK, "pages/order_detail.html", pongo2.Context{
		"Title": "Order Detail",
		"Order": order,
	})
}

// OrderEditPage renders the status change form.
func (h *Handlers) OrderEditPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := h.store.Order(c.Request.Context(), id)
	if err != nil {
		log.Printf("orders: fetch %d: %v", id, err)
		apierrors.Error(c, apierrors.CodeCatalogUnavailable)
		return
	}
	if order == nil {
		apierrors.Error(c, apierrors.CodeOrderNotFound)
		return
	}

	h.renderer.HTML(c, http.StatusOK, "pages/order_edit.html", pongo2.Context{
		"Title":    "Edit Order",
		"Order":    order,
		"Statuses": woo.OrderStatuses,
	})
}

// OrderUpdate applies a status change submitted from the edit form.
func (h *Handlers) OrderUpdate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	status := c.PostForm("status")
	valid := false
	for _, s := range woo.OrderStatuses {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		apierrors.Error(c, apierrors.CodeInvalidRequest)
		return
	}

	if _, err := h.store.UpdateOrderStatus(c.Request.Context(), id, status); err != nil {
		log.Printf("orders: update %d: %v", id, err)
		apierrors.Error(c, apierrors.CodeUpdateFailed)
		return
	}
	c.Redirect(http.StatusSeeOther, "/orders")
}
