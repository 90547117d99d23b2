package handlers

import (
	"net/http"

	"flightbot/services/conversation"
	"flightbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	Store conversation.ContextStore
}

func NewSessionHandler(store conversation.ContextStore) *SessionHandler {
	return &SessionHandler{Store: store}
}

// GetSessionHandler returns the conversation context stored for a session.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	id := c.Param("sessionID")
	sc, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		getLogger(c).Error("Failed to load session context", zap.String("session", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load session", "")
		return
	}
	if !sc.Active() {
		utils.JSONError(c, http.StatusNotFound, "Session not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "context": sc})
}
