package api

import (
	"log"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
)

// CustomerList renders the customers page. An upstream failure is logged
// and the page renders with an empty table.
func (h *Handlers) CustomerList(c *gin.Context) {
	customers, err := h.store.Customers(c.Request.Context())
	if err != nil {
		log.Printf("customers: list: %v", err)
		customers = nil
	}

	h.renderer.HTML(c, http.StatusOK, "pages/customers.html", pongo2.Context{
		"Title":     "Customers",
		"Customers": customers,
	})
}
