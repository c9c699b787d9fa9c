package api

import (
	"net/http"

	"jewelshop/internal/service"

	"github.com/gin-gonic/gin"
)

// checkoutOrder places an order from the caller's cart
func (h *Handler) checkoutOrder(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	sess := currentSession(c)
	orderID, err := h.checkout.Checkout(c.Request.Context(), sess.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Order placed successfully",
		"order_id": orderID,
	})
}

// listOrders returns the caller's own orders
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// getOrder returns one order with line items and address
func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid order ID",
		})
		return
	}

	detail, err := h.orders.GetOrder(c.Request.Context(), currentSession(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   detail.Order,
		"items":   detail.Items,
		"address": detail.Address,
	})
}

type statusRequest struct {
	Action string `json:"action" binding:"required"`
}

// updateOrderStatus applies one state-machine action to an order
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, err := idParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid order ID",
		})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Action is required",
		})
		return
	}

	action, err := service.ParseStatusAction(req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	newStatus, err := h.orders.UpdateStatus(c.Request.Context(), currentSession(c), orderID, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"new_status": newStatus,
	})
}

type bulkStatusRequest struct {
	OrderIDs []int64 `json:"order_ids" binding:"required,min=1"`
	Action   string  `json:"action" binding:"required"`
}

// bulkUpdateOrderStatus applies one action to many orders, skipping the
// ineligible ones
func (h *Handler) bulkUpdateOrderStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Order IDs and action are required",
		})
		return
	}

	action, err := service.ParseStatusAction(req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.orders.BulkUpdateStatus(c.Request.Context(), currentSession(c), req.OrderIDs, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": updated,
	})
}
