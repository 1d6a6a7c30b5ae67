package handler

import (
	"context"

	"aurachat/backend/internal/access"
	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/aura"
	"aurachat/backend/internal/chathub"
	"aurachat/backend/internal/connection"
	"aurachat/backend/internal/feedback"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/streak"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Store is the part of the ledger read directly by handlers.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetConversation(ctx context.Context, a, b string, limit int) ([]models.Message, error)
}

// Handler holds the services behind the HTTP and WebSocket endpoints.
type Handler struct {
	Hub      *chathub.ManagerService
	Store    Store
	Aura     *aura.Engine
	Activity *streak.Activity
	Feedback *feedback.Service
	Graph    *connection.Graph
	Gate     *access.Gate
	Auth     *middleware.Auth
	Log      logrus.FieldLogger

	upgrader websocket.Upgrader
}

// NewHandler wires h's websocket upgrader. checkOrigin may be nil to accept
// same-origin requests only.
func NewHandler(h Handler, checkOrigin func(origin string) bool) *Handler {
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if checkOrigin != nil {
		h.upgrader.CheckOrigin = originChecker(checkOrigin)
	}
	return &h
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/users", h.CreateUser)

	authed := r.Group("/", h.Auth.RequireAuth())
	authed.GET("/api/home", h.Home)
	authed.GET("/api/users/:id/aura", h.GetAura)
	authed.GET("/api/users/:id/stats", h.GetStats)
	authed.POST("/api/ratings", h.SubmitRating)
	authed.POST("/api/reports", h.SubmitReport)
	authed.POST("/api/connections/:id", h.Connect)
	authed.DELETE("/api/connections/:id", h.Disconnect)
	authed.GET("/api/connections/mutual", h.ListMutual)
	authed.POST("/api/verification", h.SubmitVerification)
	authed.GET("/api/messages/:peer_id", h.GetMessages)
	authed.GET("/ws/chat/:peer_id", h.ServeWebSocket)
}
