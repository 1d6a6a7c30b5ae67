package handler

import (
	"net/http"

	"aurachat/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Connect adds an edge from the caller to :id.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.Graph.Connect(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conn)
}

// Disconnect removes the edges between the caller and :id in both directions.
func (h *Handler) Disconnect(c *gin.Context) {
	if err := h.Graph.Disconnect(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMutual(c *gin.Context) {
	ids, err := h.Graph.ListMutualConnections(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_ids": ids})
}
