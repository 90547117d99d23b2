package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"flightbot/models"
	"flightbot/services/fulfillment"
	"flightbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	Fulfillment fulfillment.FulfillmentService
	Lifespan    int
}

func NewWebhookHandler(svc fulfillment.FulfillmentService, lifespan int) *WebhookHandler {
	return &WebhookHandler{Fulfillment: svc, Lifespan: lifespan}
}

// sessionID returns the last segment of a Dialogflow session path.
func sessionID(session string) string {
	if i := strings.LastIndex(session, "/"); i >= 0 {
		return session[i+1:]
	}
	return session
}

// HandleWebhook answers Dialogflow fulfillment requests.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	logger := getLogger(c)

	var req models.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook request", err.Error())
		return
	}

	turn := fulfillment.Turn{
		Intent:     req.QueryResult.Intent.DisplayName,
		Parameters: req.QueryResult.Parameters,
	}
	res, err := h.Fulfillment.Fulfill(c.Request.Context(), sessionID(req.Session), turn)
	if err != nil {
		// Dialogflow carries the context itself; the mirror is best effort.
		logger.Warn("Failed to mirror session context", zap.String("session", req.Session), zap.Error(err))
	}

	resp := models.WebhookResponse{FulfillmentText: res.Text}
	if fulfillment.IsBookingIntent(turn.Intent) && res.StateLabel != "" {
		resp.OutputContexts = []models.OutputContext{{
			Name:          fmt.Sprintf("%s/contexts/%s", req.Session, res.StateLabel),
			LifespanCount: h.Lifespan,
			Parameters:    req.QueryResult.Parameters,
		}}
	}

	logger.Info("Webhook fulfilled",
		zap.String("intent", turn.Intent),
		zap.String("outcome", res.Outcome),
		zap.String("state", res.StateLabel),
	)
	c.JSON(http.StatusOK, resp)
}
