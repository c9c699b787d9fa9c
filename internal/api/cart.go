package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartRequest struct {
	Action    string `json:"action" binding:"required"`
	ProductID int64  `json:"product_id"`
	CartID    int64  `json:"cart_id"`
	Quantity  int    `json:"quantity"`
}

// cart dispatches the storefront cart operations: add, update, remove,
// clear, get.
func (h *Handler) cart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	sess := currentSession(c)
	ctx := c.Request.Context()

	switch req.Action {
	case "add":
		count, err := h.carts.Add(ctx, sess.UserID, req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Product added to cart",
			"cart_count": count,
		})

	case "update":
		result, err := h.carts.Update(ctx, sess.UserID, req.CartID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Cart updated",
			"subtotal":   result.LineSubtotal,
			"cart_total": result.Total,
			"cart_count": result.ItemCount,
		})

	case "remove":
		summary, err := h.carts.Remove(ctx, sess.UserID, req.CartID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Item removed from cart",
			"cart_total": summary.Total,
			"cart_count": summary.ItemCount,
		})

	case "clear":
		if err := h.carts.Clear(ctx, sess.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Cart cleared",
			"cart_total": "0",
			"cart_count": 0,
		})

	case "get":
		view, err := h.carts.Get(ctx, sess.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       view,
			"cart_total": view.Total,
			"cart_count": view.ItemCount,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid action",
		})
	}
}
