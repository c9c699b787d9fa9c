package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listVendorItems returns the vendor's order items, optionally filtered
// by ?status=
func (h *Handler) listVendorItems(c *gin.Context) {
	sess := currentSession(c)

	items, err := h.vendors.ListItems(c.Request.Context(), sess.VendorID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
	})
}

type vendorStatusRequest struct {
	Status           string `json:"status" binding:"required"`
	TrackingNumber   string `json:"tracking_number"`
	ShippingProvider string `json:"shipping_provider"`
}

// updateVendorItemStatus records a fulfillment update on the vendor's own
// order item
func (h *Handler) updateVendorItemStatus(c *gin.Context) {
	itemID, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid order item ID",
		})
		return
	}

	var req vendorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Status is required",
		})
		return
	}

	sess := currentSession(c)
	err = h.vendors.UpdateItemStatus(c.Request.Context(), sess.VendorID, itemID,
		req.Status, req.TrackingNumber, req.ShippingProvider)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"new_status": req.Status,
	})
}

// vendorSummary returns the vendor dashboard aggregates
func (h *Handler) vendorSummary(c *gin.Context) {
	sess := currentSession(c)

	summary, err := h.vendors.Summary(c.Request.Context(), sess.VendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}
