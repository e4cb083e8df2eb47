package httpserver

import (
	"net/http"
	"strconv"

	"dataco-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	// Quantity is a pointer so an omitted field (defaults to 1) stays
	// distinguishable from an explicit zero (rejected by the service).
	Quantity *int `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type toggleSelectRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

func (h *handlers) cartView(c *gin.Context) {
	cart, lines, err := h.deps.CartSvc.View(c.Request.Context(), customerID(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if lines == nil {
		lines = []domain.CartLineView{}
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "lines": lines})
}

func (h *handlers) cartCount(c *gin.Context) {
	count, err := h.deps.CartSvc.Count(c.Request.Context(), customerID(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := h.deps.CartSvc.AddToCart(c.Request.Context(), customerID(c), req.ProductID, quantity)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	message := "added to cart"
	if result.Warning != "" {
		message += " (" + result.Warning + ")"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "cartCount": result.CartCount})
}

func (h *handlers) updateQuantity(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	warning, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), customerID(c), itemID, *req.Quantity)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if warning != "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "warning": true, "message": warning})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) toggleSelect(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	var req toggleSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if err := h.deps.CartSvc.ToggleSelect(c.Request.Context(), customerID(c), itemID, *req.Selected); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) removeItem(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deps.CartSvc.RemoveItem(c.Request.Context(), customerID(c), itemID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return 0, false
	}
	return id, true
}
