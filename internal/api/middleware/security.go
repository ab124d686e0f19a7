package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersConfig configures SecurityHeaders.
type SecurityHeadersConfig struct {
	// IsDevelopment skips HSTS so plain-http local setups keep working.
	IsDevelopment bool
	// CrossOriginPrefixes lists path prefixes whose responses are embedded by
	// the frontend on another origin, such as uploaded blog images.
	CrossOriginPrefixes []string
}

// apiCSP fits a JSON API: nothing is rendered, nothing may frame it.
const apiCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

var permissionsPolicy = strings.Join([]string{
	"accelerometer=()",
	"camera=()",
	"geolocation=()",
	"gyroscope=()",
	"magnetometer=()",
	"microphone=()",
	"payment=()",
	"usb=()",
}, ", ")

// SecurityHeaders sets helmet-style response headers.
func SecurityHeaders(cfg SecurityHeadersConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", apiCSP)
		if !cfg.IsDevelopment {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", permissionsPolicy)
		h.Set("Cross-Origin-Opener-Policy", "same-origin")

		corp := "same-origin"
		for _, prefix := range cfg.CrossOriginPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				corp = "cross-origin"
				break
			}
		}
		h.Set("Cross-Origin-Resource-Policy", corp)

		c.Next()
	}
}
