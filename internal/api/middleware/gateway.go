package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GatewayAuth trusts user info from gateway headers (X-User-ID, X-User-Email).
// It is used when the service runs behind a gateway that handles sign-in and quotas.
//
// When AUTH_MODE=gateway, the API trusts these headers unconditionally.
// This should ONLY be used with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			msg := "Authentication required"
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"data":  nil,
				"error": msg,
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", c.GetHeader("X-User-Email"))
		c.Next()
	}
}

// GetUserIDFromGateway retrieves the user ID set by GatewayAuth or NoAuth
func GetUserIDFromGateway(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
