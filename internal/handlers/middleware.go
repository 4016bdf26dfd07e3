package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OriginFilter filters browser requests by Origin and sets CORS headers
// for the origins it lets through. Requests without an Origin header
// (curl, server-to-server) pass untouched.
func OriginFilter(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			// Older WebSocket clients put it here instead.
			origin = c.GetHeader("Sec-WebSocket-Origin")
		}

		if origin != "" {
			if !originAllowed(origin, allowedOrigins) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "Origin not allowed",
				})
				return
			}
			header := c.Writer.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if origin == candidate {
			return true
		}
	}
	return false
}
