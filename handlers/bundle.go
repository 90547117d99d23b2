// File: flightbot/handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Dialogflow fulfillment
	WebhookHandler gin.HandlerFunc

	// Chat endpoints
	ChatWSHandler    gin.HandlerFunc
	VoiceChatHandler gin.HandlerFunc

	// Session inspection
	GetSessionHandler gin.HandlerFunc

	// Operational endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc
}
