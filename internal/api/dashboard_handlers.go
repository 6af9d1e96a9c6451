package api

import (
	"log"
	"net/http"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kidsparadise/kp-erp/internal/woo"
)

// wooTime is the store API's datetime layout (no zone suffix).
const wooTime = "2006-01-02T15:04:05"

var displayPrinter = message.NewPrinter(language.English)

// Dashboard renders the landing page: revenue and order count over the
// last 30 days, catalog counts, and the most recent orders. The three
// upstream fetches are independent and run concurrently; any failure is
// logged and its figure degrades to zero so the page always renders.
func (h *Handlers) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	after := time.Now().AddDate(0, 0, -30).Format(wooTime)

	var (
		completed []woo.Order
		recent    []woo.Order
		counts    = &woo.ProductCounts{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := h.store.Orders(gctx, woo.OrdersQuery{Status: woo.OrderStatusCompleted, After: after})
		if err != nil {
			log.Printf("dashboard: fetch completed orders: %v", err)
			return nil
		}
		completed = orders
		return nil
	})
	g.Go(func() error {
		orders, err := h.store.Orders(gctx, woo.OrdersQuery{After: after})
		if err != nil {
			log.Printf("dashboard: fetch recent orders: %v", err)
			return nil
		}
		recent = orders
		return nil
	})
	g.Go(func() error {
		got, err := h.store.Counts(gctx)
		if err != nil {
			log.Printf("dashboard: fetch product counts: %v", err)
			return nil
		}
		counts = got
		return nil
	})
	g.Wait()

	var revenue float64
	for i := range completed {
		revenue += completed[i].TotalAmount()
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	h.renderer.HTML(c, http.StatusOK, "pages/dashboard.html", pongo2.Context{
		"Title":        "Dashboard",
		"Revenue":      displayPrinter.Sprintf("%.2f", revenue),
		"OrderCount":   len(completed),
		"Counts":       counts,
		"RecentOrders": recent,
	})
}

// monthlySale is one bar of the overview chart.
type monthlySale struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// DashboardSales answers the overview chart data: completed order totals of
// the current year bucketed by month. Fetch failures degrade to an
// all-zero series rather than an error.
func (h *Handlers) DashboardSales(c *gin.Context) {
	ctx := c.Request.Context()
	yearStart := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format(wooTime)

	orders, err := h.store.Orders(ctx, woo.OrdersQuery{Status: woo.OrderStatusCompleted, After: yearStart})
	if err != nil {
		log.Printf("dashboard: fetch sales series: %v", err)
		orders = nil
	}

	totals := make([]float64, 12)
	for i := range orders {
		created, err := time.Parse(wooTime, orders[i].DateCreated)
		if err != nil {
			continue
		}
		totals[created.Month()-1] += orders[i].TotalAmount()
	}

	series := make([]monthlySale, 12)
	for m := time.January; m <= time.December; m++ {
		series[m-1] = monthlySale{Name: m.String()[:3], Total: totals[m-1]}
	}
	c.JSON(http.StatusOK, gin.H{"sales": series})
}

// Healthz is the liveness probe.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
