package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoAuth is a pass-through middleware for AUTH_MODE=none.
// It allows all requests without authentication.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set a dummy user ID for logging purposes
		c.Set("user_id", "anonymous")
		c.Next()
	}
}
