// Package connection manages directed interest edges between users.
// Two users are mutually connected when edges exist in both directions.
package connection

import (
	"context"
	"errors"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store is the part of the ledger the graph needs.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	CreateConnection(ctx context.Context, conn *models.Connection) (bool, error)
	EdgeExists(ctx context.Context, fromID, toID string) (bool, error)
	DeleteConnectionPair(ctx context.Context, a, b string) error
	ListMutualConnections(ctx context.Context, userID string) ([]string, error)
}

// Gate is the access check used before creating edges.
type Gate interface {
	EnsureNotBanned(ctx context.Context, userID string) error
	VerificationStatus(ctx context.Context, userID string) (models.VerificationStatus, error)
}

// Graph is the connection graph service.
type Graph struct {
	store               Store
	gate                Gate
	requireVerification bool
	log                 logrus.FieldLogger
}

// NewGraph creates a Graph. When requireVerification is set, both users must be
// VERIFIED before an edge can be created.
func NewGraph(store Store, gate Gate, requireVerification bool, log logrus.FieldLogger) *Graph {
	return &Graph{store: store, gate: gate, requireVerification: requireVerification, log: log}
}

// Connect creates the directed edge from -> to.
func (g *Graph) Connect(ctx context.Context, from, to string) (*models.Connection, error) {
	if from == to {
		return nil, apperror.Policy(apperror.ErrSelfConnection)
	}
	for _, id := range []string{from, to} {
		if _, err := g.store.GetUserByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("user")
			}
			return nil, apperror.Transient(err)
		}
	}
	if err := g.gate.EnsureNotBanned(ctx, from); err != nil {
		return nil, err
	}
	if g.requireVerification {
		if err := g.ensureVerified(ctx, from, to); err != nil {
			return nil, err
		}
	}

	conn := &models.Connection{FromUserID: from, ToUserID: to}
	created, err := g.store.CreateConnection(ctx, conn)
	if err != nil {
		return nil, apperror.Transient(err)
	}
	if !created {
		return nil, apperror.Policy(apperror.ErrDuplicateEdge)
	}

	g.log.WithFields(logrus.Fields{"from": from, "to": to}).Info("connection created")
	return conn, nil
}

func (g *Graph) ensureVerified(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		status, err := g.gate.VerificationStatus(ctx, id)
		if err != nil {
			return err
		}
		if status != models.VerificationVerified {
			return apperror.Policy(apperror.ErrNotVerified)
		}
	}
	return nil
}

// Disconnect removes the edges in both directions. Missing edges are ignored.
func (g *Graph) Disconnect(ctx context.Context, a, b string) error {
	if err := g.store.DeleteConnectionPair(ctx, a, b); err != nil {
		return apperror.Transient(err)
	}
	g.log.WithFields(logrus.Fields{"a": a, "b": b}).Info("connection removed")
	return nil
}

// IsMutuallyConnected reports whether both a->b and b->a exist.
func (g *Graph) IsMutuallyConnected(ctx context.Context, a, b string) (bool, error) {
	return g.edges(ctx, a, b, true)
}

// HasAnyEdge reports whether a->b or b->a exists.
func (g *Graph) HasAnyEdge(ctx context.Context, a, b string) (bool, error) {
	return g.edges(ctx, a, b, false)
}

func (g *Graph) edges(ctx context.Context, a, b string, both bool) (bool, error) {
	ab, err := g.store.EdgeExists(ctx, a, b)
	if err != nil {
		return false, apperror.Transient(err)
	}
	if ab && !both {
		return true, nil
	}
	if !ab && both {
		return false, nil
	}
	ba, err := g.store.EdgeExists(ctx, b, a)
	if err != nil {
		return false, apperror.Transient(err)
	}
	return ba, nil
}

// ListMutualConnections returns every user mutually connected with userID.
func (g *Graph) ListMutualConnections(ctx context.Context, userID string) ([]string, error) {
	ids, err := g.store.ListMutualConnections(ctx, userID)
	if err != nil {
		return nil, apperror.Transient(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
