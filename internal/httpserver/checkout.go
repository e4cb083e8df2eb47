package httpserver

import (
	"net/http"

	"dataco-storefront/internal/domain"
	checkoutsvc "dataco-storefront/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func (h *handlers) checkoutView(c *gin.Context) {
	lines, err := h.deps.CheckoutSvc.View(c.Request.Context(), customerID(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if lines == nil {
		lines = []domain.CartLineView{}
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *handlers) processCheckout(c *gin.Context) {
	var in checkoutsvc.ShippingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	orderID, err := h.deps.CheckoutSvc.Process(c.Request.Context(), customerID(c), in)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orderId": orderID})
}

func (h *handlers) regionMarket(c *gin.Context) {
	region, market := h.deps.GeoResolver.Resolve(c.Request.Context(), c.Query("country"))
	c.JSON(http.StatusOK, gin.H{"region": region, "market": market})
}
