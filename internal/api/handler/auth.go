package handler

import (
	"errors"
	"net/http"
	"strings"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	FullName string `json:"full_name" binding:"max=128"`
}

// CreateUser registers a user and returns a session token for it.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	user := &models.User{Username: strings.TrimSpace(req.Username), FullName: strings.TrimSpace(req.FullName)}
	if err := h.Store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "username is not available"})
			return
		}
		h.respondError(c, apperror.Transient(err))
		return
	}

	token, err := h.Auth.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}
