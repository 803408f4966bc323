package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// kioskCSP lets the kiosk page embed the PDF viewer and media from anywhere.
const kioskCSP = "default-src * 'unsafe-inline' 'unsafe-eval' data: blob:; " +
	"script-src * 'unsafe-inline' 'unsafe-eval'; connect-src *; img-src * data: blob:; " +
	"style-src * 'unsafe-inline'; frame-src * data: blob:; child-src * data: blob:;"

// ContentSecurityPolicy replaces any CSP header with the kiosk policy.
func ContentSecurityPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Del("X-Content-Security-Policy")
		h.Del("X-WebKit-CSP")
		h.Set("Content-Security-Policy", kioskCSP)
		c.Next()
	}
}

// CORS allows any origin, as the kiosk page may be served from another host.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
