package handler

import (
	"net/http"

	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type verificationRequest struct {
	DocumentType string `json:"document_type" binding:"required,oneof=NATIONAL_ID PASSPORT DRIVERS_LICENSE OTHER"`
	DocumentRef  string `json:"document_ref" binding:"required,max=512"`
}

// SubmitVerification puts the caller's identity documents up for review.
func (h *Handler) SubmitVerification(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	v, err := h.Gate.SubmitVerification(c.Request.Context(), middleware.UserID(c), models.DocumentType(req.DocumentType), req.DocumentRef)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, v)
}
