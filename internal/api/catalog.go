package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listProducts returns the active catalog
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
	})
}

// getProduct returns one product
func (h *Handler) getProduct(c *gin.Context) {
	productID, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid product ID",
		})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

type stockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// setProductStock sets an absolute stock level (back-office inventory
// edit)
func (h *Handler) setProductStock(c *gin.Context) {
	productID, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid product ID",
		})
		return
	}

	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Stock is required",
		})
		return
	}

	if err := h.catalog.SetStock(c.Request.Context(), currentSession(c), productID, *req.Stock); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock updated",
	})
}
