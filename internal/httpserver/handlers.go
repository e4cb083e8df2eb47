package httpserver

import (
	"errors"
	"log"
	"net/http"

	"dataco-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// respondServiceError maps the error taxonomy onto HTTP responses.
// Validation failures never changed state; availability failures carry the
// full itemized list from the rolled-back transaction.
func (h *handlers) respondServiceError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var availabilityErr *domain.AvailabilityError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Msg})
	case errors.As(err, &availabilityErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":  false,
			"message":  availabilityErr.Error(),
			"failures": availabilityErr.Failures,
		})
	case errors.Is(err, domain.ErrNoItemsSelected):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "select at least one item to check out"})
	case errors.Is(err, domain.ErrOrderNotActionable):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "order has already been processed"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	default:
		h.logger.Printf("http: %s %s error=%v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}
