// Package chathub runs the real-time chat protocol: session admission, rooms
// shared by two users, message delivery, read receipts and presence.
package chathub

import (
	"context"
	"errors"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/config"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserFinder loads users by id.
type UserFinder interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// BanChecker rejects banned users.
type BanChecker interface {
	EnsureNotBanned(ctx context.Context, userID string) error
}

// ConnectionChecker answers the admission policy questions.
type ConnectionChecker interface {
	IsMutuallyConnected(ctx context.Context, a, b string) (bool, error)
	HasAnyEdge(ctx context.Context, a, b string) (bool, error)
}

// ManagerService admits chat sessions and hands them to the room registry.
type ManagerService struct {
	Registry *Registry

	users   UserFinder
	bans    BanChecker
	graph   ConnectionChecker
	policy  string
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewManagerService creates a ManagerService. policy is config.AdmissionMutual
// or config.AdmissionAny.
func NewManagerService(registry *Registry, users UserFinder, bans BanChecker, graph ConnectionChecker, policy string, m *metrics.Metrics, log logrus.FieldLogger) *ManagerService {
	if policy == "" {
		policy = config.AdmissionMutual
	}
	return &ManagerService{
		Registry: registry,
		users:    users,
		bans:     bans,
		graph:    graph,
		policy:   policy,
		metrics:  m,
		log:      log,
	}
}

// Admit decides whether self may open a chat session with peer and counts the
// outcome. It must succeed before the connection is upgraded.
func (m *ManagerService) Admit(ctx context.Context, self, peer string) error {
	err := m.CanChat(ctx, self, peer)
	if err != nil {
		m.metrics.SessionsTotal.WithLabelValues("rejected").Inc()
		m.log.WithError(err).WithFields(logrus.Fields{"user_id": self, "peer_id": peer}).Info("chat session rejected")
		return err
	}
	m.metrics.SessionsTotal.WithLabelValues("admitted").Inc()
	return nil
}

// CanChat applies the admission rules without recording a session attempt.
func (m *ManagerService) CanChat(ctx context.Context, self, peer string) error {
	if self == "" || peer == "" {
		return apperror.Validation(errors.New("both participants are required"))
	}
	if self == peer {
		return apperror.Policy(apperror.ErrSelfConnection)
	}
	if _, err := m.users.GetUserByID(ctx, peer); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return apperror.Transient(err)
	}
	for _, id := range []string{self, peer} {
		if err := m.bans.EnsureNotBanned(ctx, id); err != nil {
			return err
		}
	}

	var (
		ok  bool
		err error
	)
	switch m.policy {
	case config.AdmissionAny:
		ok, err = m.graph.HasAnyEdge(ctx, self, peer)
	default:
		ok, err = m.graph.IsMutuallyConnected(ctx, self, peer)
	}
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Policy(apperror.ErrNotConnected)
	}
	return nil
}

// Register activates an admitted client in its room.
func (m *ManagerService) Register(c Client) {
	m.Registry.Join(c)
}

// Unregister removes the client from its room and closes it.
func (m *ManagerService) Unregister(c Client) {
	m.Registry.Leave(c)
}

// Submit forwards a raw inbound frame to the client's room.
func (m *ManagerService) Submit(c Client, raw []byte) {
	m.Registry.Submit(c, raw)
}
