package handler

import (
	"net/http"

	"aurachat/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Home records the visit as activity and returns the caller's streak and aura.
func (h *Handler) Home(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	streak, err := h.Activity.Record(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	breakdown, err := h.Aura.Breakdown(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"streak": gin.H{
			"current_streak":  streak.CurrentStreak,
			"longest_streak":  streak.LongestStreak,
			"last_visit_date": streak.LastVisitDate,
		},
		"aura": breakdown,
	})
}

// GetAura returns the aura breakdown of any user.
func (h *Handler) GetAura(c *gin.Context) {
	breakdown, err := h.Aura.Breakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// GetStats returns the peer statistics shown next to a chat partner.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Feedback.GetPeerStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
