package handler

import (
	"net/http"
	"net/url"

	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/chathub"

	"github.com/gin-gonic/gin"
)

// ServeWebSocket admits the caller to a chat with :peer_id and upgrades the
// connection. Rejected sessions get a plain HTTP error and are never upgraded.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, peerID := middleware.UserID(c), c.Param("peer_id")
	ctx := c.Request.Context()

	if err := h.Hub.Admit(ctx, userID, peerID); err != nil {
		h.respondError(c, err)
		return
	}

	if _, err := h.Activity.Record(ctx, userID); err != nil {
		h.Log.WithError(err).WithField("user_id", userID).Warn("failed to record chat activity")
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.WithError(err).WithField("user_id", userID).Debug("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(userID, peerID, conn, h.Hub, h.Log)
	h.Hub.Register(client)
	client.Run()
}

func originChecker(allowed func(origin string) bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
			return true
		}
		return allowed(origin)
	}
}
