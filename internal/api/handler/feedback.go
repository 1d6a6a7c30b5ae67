package handler

import (
	"net/http"

	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/feedback"

	"github.com/gin-gonic/gin"
)

type ratingRequest struct {
	RateeID string `json:"ratee_id" binding:"required"`
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
}

type reportRequest struct {
	ReportedID  string `json:"reported_id" binding:"required"`
	Reason      string `json:"reason" binding:"required,max=64"`
	Description string `json:"description" binding:"max=2000"`
	RoomContext string `json:"room_context" binding:"max=255"`
}

func (h *Handler) SubmitRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	rating, err := h.Feedback.SubmitRating(c.Request.Context(), middleware.UserID(c), req.RateeID, req.Stars)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

func (h *Handler) SubmitReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	report, err := h.Feedback.SubmitReport(c.Request.Context(), feedback.ReportInput{
		ReporterID:  middleware.UserID(c),
		ReportedID:  req.ReportedID,
		Reason:      req.Reason,
		Description: req.Description,
		RoomContext: req.RoomContext,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
