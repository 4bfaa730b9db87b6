// Package security provides hardening middleware for the HTTP API.
package security

import (
	"os"

	"github.com/gin-gonic/gin"
)

// HeadersMiddleware adds security headers to all responses. The API is
// JSON-only, so the headers target embedding and sniffing rather than
// script execution.
func HeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS only when the deployment terminates TLS itself
		if os.Getenv("ENABLE_HSTS") == "true" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
