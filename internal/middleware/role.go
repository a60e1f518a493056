package middleware

import (
	"net/http"

	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// StaffOnly gates room-management endpoints behind the staff flag.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("is_staff")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Staff flag not found in token")
			c.Abort()
			return
		}

		if ok, _ := isStaff.(bool); !ok {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
