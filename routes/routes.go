package routes

import (
	"net/http"
	"time"

	"flightbot/config"
	"flightbot/handlers"
	"flightbot/middleware"
	"flightbot/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the Dialogflow fulfillment endpoint behind the rate limiter.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg config.Config) {
	webhook := r.Group("/webhook")
	{
		webhook.Use(middleware.RateLimitMiddleware(cfg.RateLimitMax, cfg.RateLimitWindow))
		webhook.POST("", hb.WebhookHandler)
		webhook.POST("/", hb.WebhookHandler)
	}
}

// RegisterChatRoutes registers the chat transports.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws", hb.ChatWSHandler)

	api := r.Group("/api")
	{
		if hb.VoiceChatHandler != nil {
			api.POST("/chat/voice", hb.VoiceChatHandler)
		}
		api.GET("/sessions/:sessionID", hb.GetSessionHandler)
	}
}

// RegisterHealthRoute registers the root, health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", handlers.RootHandler)
	r.GET("/health", hb.HealthHandler)
	if hb.MetricsHandler != nil {
		r.GET("/metrics", hb.MetricsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg config.Config) {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.Origins(); len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(middleware.SecurityHeadersMiddleware(!config.IsProduction()))
	r.Use(cors.New(corsCfg))

	RegisterWebhookRoutes(r, hb, cfg)
	RegisterChatRoutes(r, hb)
	RegisterHealthRoute(r, hb)

	r.NoRoute(utils.NotFoundHandler)
}
