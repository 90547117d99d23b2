package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"flightbot/models"
	"flightbot/services/intelligence"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	eventSession = "session"
	eventMessage = "message"
	eventError   = "error"

	respondTimeout = 15 * time.Second
	maxFrameSize   = 16 * 1024
)

// ChatHandler bridges browser WebSocket clients to the NLU responder. Each
// connection gets its own session id; frames of one connection are handled
// sequentially.
type ChatHandler struct {
	Responder   intelligence.Responder
	Connections prometheus.Gauge
	upgrader    websocket.Upgrader
}

func NewChatHandler(responder intelligence.Responder, allowedOrigins []string, connections prometheus.Gauge) *ChatHandler {
	return &ChatHandler{
		Responder:   responder,
		Connections: connections,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// decodeMessage extracts the user text from a frame. Plain text frames are
// accepted as messages too.
func decodeMessage(payload []byte) (string, bool) {
	var env models.ChatEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return string(payload), len(payload) > 0
	}
	if env.Event != eventMessage {
		return "", false
	}
	text, ok := env.Data.(string)
	return text, ok && text != ""
}

// ServeWS upgrades the request and runs the read loop until the client leaves.
func (h *ChatHandler) ServeWS(c *gin.Context) {
	logger := getLogger(c)

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxFrameSize)

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session", sessionID))
	logger.Info("Client connected", zap.String("remote", ws.RemoteAddr().String()))
	if h.Connections != nil {
		h.Connections.Inc()
		defer h.Connections.Dec()
	}

	if err := ws.WriteJSON(models.ChatEnvelope{Event: eventSession, Data: sessionID}); err != nil {
		return
	}

	for {
		msgType, payload, err := ws.ReadMessage()
		if err != nil {
			logger.Info("Client disconnected")
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		text, ok := decodeMessage(payload)
		if !ok {
			continue
		}
		logger.Debug("Received message", zap.String("text", text))

		ctx, cancel := context.WithTimeout(c.Request.Context(), respondTimeout)
		reply, err := h.Responder.Respond(ctx, sessionID, text)
		cancel()

		var out models.ChatEnvelope
		if err != nil {
			logger.Error("Error processing message", zap.Error(err))
			out = models.ChatEnvelope{Event: eventError, Data: models.ChatError{Message: "Failed to process message", Code: http.StatusInternalServerError}}
		} else {
			out = models.ChatEnvelope{Event: eventMessage, Data: reply}
		}
		if err := ws.WriteJSON(out); err != nil {
			logger.Warn("Failed to write to client", zap.Error(err))
			return
		}
	}
}
