package handler

import (
	"net/http"
	"strconv"

	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/apperror"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// GetMessages returns the conversation history with :peer_id. Only users who
// could open a chat with the peer may read it.
func (h *Handler) GetMessages(c *gin.Context) {
	userID, peerID := middleware.UserID(c), c.Param("peer_id")

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	ctx := c.Request.Context()
	if err := h.Hub.CanChat(ctx, userID, peerID); err != nil {
		h.respondError(c, err)
		return
	}

	history, err := h.Store.GetConversation(ctx, userID, peerID, limit)
	if err != nil {
		h.respondError(c, apperror.Transient(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}
