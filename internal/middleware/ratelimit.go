package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"golang.org/x/time/rate"   // Token bucket rate limiter
)

// RateLimitMiddleware rejects requests over the global capacity with 429
func RateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			// Over capacity, abort with too many requests
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,                                      // Request failed
				"message": "The API is at capacity, try again later.", // Back off message
			})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
