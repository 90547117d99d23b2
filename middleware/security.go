package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the usual hardening headers on every response.
// HSTS is only sent outside development.
func SecurityHeadersMiddleware(isDevelopment bool) gin.HandlerFunc {
	cfg := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		IENoOpen:              true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'",
	}
	if !isDevelopment {
		cfg.STSSeconds = 15552000
		cfg.STSIncludeSubdomains = true
	}
	return secure.New(cfg)
}
