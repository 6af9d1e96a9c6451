package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kidsparadise/kp-erp/internal/apierrors"
	"github.com/kidsparadise/kp-erp/internal/middleware"
	"github.com/kidsparadise/kp-erp/internal/sync"
)

// detailsPolicy strips any markup the model sneaks into free-text verdict
// fields before they reach the page.
var detailsPolicy = bluemonday.StrictPolicy()

// Sample blobs pre-filled into the data-sync form so the flow can be tried
// without hunting for a real vendor feed.
const (
	sampleVendorJSON = `{
  "product_id": "KC12345",
  "product_name": "Organic Cotton Baby Onesie",
  "price": "15.99",
  "stock_quantity": 150,
  "sku": "KC12345"
}`
	sampleERPJSON = `{
  "product_id": "KC12345",
  "product_name": "Organic Cotton Baby Onesie - Blue",
  "price": "14.99",
  "stock_quantity": 145,
  "sku": "KC12345"
}`
)

// DataSyncPage renders the reconciliation workbench with example payloads.
func (h *Handlers) DataSyncPage(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "pages/datasync.html", pongo2.Context{
		"Title":      "Data Sync",
		"VendorJSON": sampleVendorJSON,
		"ERPJSON":    sampleERPJSON,
		"Configured": h.assistant != nil,
	})
}

type verifyRequest struct {
	VendorJSON string `json:"vendorJson" binding:"required"`
	ERPJSON    string `json:"erpJson" binding:"required"`
}

// DataSyncVerify asks the assistant to compare a vendor blob against an ERP
// blob and returns the verdict as JSON.
func (h *Handlers) DataSyncVerify(c *gin.Context) {
	if h.assistant == nil {
		apierrors.Error(c, apierrors.CodeSyncDisabled)
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Error(c, apierrors.CodeInvalidRequest)
		return
	}

	verdict, err := h.assistant.Reconcile(c.Request.Context(), req.VendorJSON, req.ERPJSON)
	if err != nil {
		if errors.Is(err, sync.ErrNotConfigured) {
			apierrors.Error(c, apierrors.CodeSyncDisabled)
			return
		}
		log.Printf("data-sync: verify: %v", err)
		apierrors.Error(c, apierrors.CodeSyncBadVerdict)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"verdict": gin.H{
			"isDataCorrect":        verdict.IsDataCorrect,
			"correctedProductData": verdict.CorrectedProductData,
			"discrepancyDetails":   detailsPolicy.Sanitize(verdict.DiscrepancyDetails),
		},
	})
}

type applyRequest struct {
	CorrectedProductData string `json:"correctedProductData" binding:"required"`
}

// DataSyncApply writes assistant-corrected product data back to the store.
// The guard already keeps viewers off /api/data-sync, but a write is
// re-checked against the session role anyway.
func (h *Handlers) DataSyncApply(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Error(c, apierrors.CodeInvalidRequest)
		return
	}

	result := h.applier.Apply(c.Request.Context(), req.CorrectedProductData)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"success":   result.Success,
		"message":   result.Message,
		"productId": result.ProductID,
	})
}
