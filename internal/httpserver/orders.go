package httpserver

import (
	"net/http"
	"strconv"

	"dataco-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const ordersPageSize = 10

func (h *handlers) listOrders(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	orders, total, err := h.deps.OrderRepo.ListByCustomer(c.Request.Context(), customerID(c), page, ordersPageSize)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	totalPages := (total + ordersPageSize - 1) / ordersPageSize
	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
	})
}

func (h *handlers) orderDetail(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.deps.OrderRepo.GetDetail(c.Request.Context(), orderID, customerID(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *handlers) confirmDelivery(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	status, err := h.deps.DeliverySvc.Confirm(c.Request.Context(), customerID(c), orderID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deliveryStatus": status})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deps.DeliverySvc.Cancel(c.Request.Context(), customerID(c), orderID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
