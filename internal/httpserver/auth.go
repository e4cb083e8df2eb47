package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dataco-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const customerIDKey = "customerID"

// customerMiddleware resolves the authenticated principal from the
// X-Customer-ID header against the customer directory. Identity management
// itself lives outside this core; the gateway in front of it sets the header.
func customerMiddleware(repo customerRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-Customer-ID"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing customer id"})
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid customer id"})
			return
		}

		customer, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unknown customer"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "customer lookup failed"})
			return
		}
		if !customer.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "customer disabled"})
			return
		}

		c.Set(customerIDKey, customer.ID)
		c.Next()
	}
}

func customerID(c *gin.Context) int64 {
	return c.GetInt64(customerIDKey)
}
