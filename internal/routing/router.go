// Package routing wires the HTTP surface: middleware chain, page routes,
// and the JSON API.
package routing

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kidsparadise/kp-erp/internal/api"
	"github.com/kidsparadise/kp-erp/internal/middleware"
	"github.com/kidsparadise/kp-erp/internal/session"
)

// New assembles the engine. Every route below /login sits behind the
// session guard; role gating for edit pages and data-sync happens in the
// guard itself.
func New(h *api.Handlers, codec *session.Codec) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.Metrics())
	r.Use(middleware.Guard(codec))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	r.GET("/", h.Dashboard)

	r.GET("/products", h.ProductList)
	r.GET("/products/export.csv", h.ProductExportCSV)
	r.GET("/products/export.xlsx", h.ProductExportXLSX)
	r.GET("/products/:id/edit", h.ProductEditPage)
	r.POST("/products/:id/edit", h.ProductUpdate)

	r.GET("/orders", h.OrderList)
	r.GET("/orders/:id", h.OrderDetail)
	r.GET("/orders/:id/edit", h.OrderEditPage)
	r.POST("/orders/:id/edit", h.OrderUpdate)

	r.GET("/customers", h.CustomerList)

	r.GET("/data-sync", h.DataSyncPage)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/dashboard/sales", h.DashboardSales)
		apiGroup.POST("/data-sync/verify", h.DataSyncVerify)
		apiGroup.POST("/data-sync/apply", h.DataSyncApply)
	}

	return r
}
