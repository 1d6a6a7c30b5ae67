// Package access holds the guards consulted before chat admission and
// connection changes: bans and identity verification.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// negativeBanCacheTTL caps how long a "not banned" lookup is cached.
const negativeBanCacheTTL = time.Minute

// Store is the part of the ledger the gate needs.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	HasActiveBan(ctx context.Context, userID string) (bool, error)
	CreateBan(ctx context.Context, ban *models.Ban) error
	DeactivateBans(ctx context.Context, userID string) (int64, error)
	CachedBanStatus(ctx context.Context, userID string) (bool, bool, error)
	CacheBanStatus(ctx context.Context, userID string, banned bool, ttl time.Duration) error
	FillBanCache(ctx context.Context, userID string, banned bool, ttl time.Duration) error
	DropBanCache(ctx context.Context, userID string) error

	GetVerification(ctx context.Context, userID string) (*models.Verification, error)
	UpsertVerification(ctx context.Context, v *models.Verification) error
	SetVerificationStatus(ctx context.Context, userID string, status models.VerificationStatus, reviewedAt time.Time) error
}

// Gate answers ban and verification questions.
type Gate struct {
	store       Store
	banCacheTTL time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewGate(store Store, banCacheTTL time.Duration, log logrus.FieldLogger) *Gate {
	return &Gate{store: store, banCacheTTL: banCacheTTL, log: log, now: time.Now}
}

// IsBanned reports whether the user has an active ban. The Redis cache is
// consulted first; a cache failure falls through to the database.
func (g *Gate) IsBanned(ctx context.Context, userID string) (bool, error) {
	banned, found, err := g.store.CachedBanStatus(ctx, userID)
	if err != nil {
		g.log.WithError(err).WithField("user_id", userID).Warn("ban cache lookup failed")
	} else if found {
		return banned, nil
	}

	banned, err = g.store.HasActiveBan(ctx, userID)
	if err != nil {
		return false, apperror.Transient(err)
	}
	ttl := g.banCacheTTL
	if !banned {
		ttl = min(ttl, negativeBanCacheTTL)
	}
	if err := g.store.FillBanCache(ctx, userID, banned, ttl); err != nil {
		g.log.WithError(err).WithField("user_id", userID).Warn("ban cache write failed")
	}
	return banned, nil
}

// EnsureNotBanned returns a policy violation naming the user when they are banned.
func (g *Gate) EnsureNotBanned(ctx context.Context, userID string) error {
	banned, err := g.IsBanned(ctx, userID)
	if err != nil {
		return err
	}
	if banned {
		return apperror.Policy(apperror.ErrBanned)
	}
	return nil
}

// VerificationStatus returns UNVERIFIED when the user never submitted documents.
func (g *Gate) VerificationStatus(ctx context.Context, userID string) (models.VerificationStatus, error) {
	v, err := g.store.GetVerification(ctx, userID)
	if err != nil {
		return "", apperror.Transient(err)
	}
	if v == nil {
		return models.Unverified, nil
	}
	return v.Status, nil
}

// Ban records an active ban and refreshes the cache.
func (g *Gate) Ban(ctx context.Context, userID, bannedBy, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperror.Validation(errors.New("ban reason is required"))
	}
	if _, err := g.store.GetUserByID(ctx, userID); err != nil {
		return notFoundOr(err, "user")
	}
	if err := g.store.CreateBan(ctx, &models.Ban{UserID: userID, BannedBy: bannedBy, Reason: reason}); err != nil {
		return apperror.Transient(err)
	}
	if err := g.store.CacheBanStatus(ctx, userID, true, g.banCacheTTL); err != nil {
		g.log.WithError(err).WithField("user_id", userID).Warn("ban cache write failed")
	}
	g.log.WithFields(logrus.Fields{"user_id": userID, "banned_by": bannedBy}).Info("user banned")
	return nil
}

// Unban lifts every active ban of the user.
func (g *Gate) Unban(ctx context.Context, userID string) error {
	lifted, err := g.store.DeactivateBans(ctx, userID)
	if err != nil {
		return apperror.Transient(err)
	}
	if err := g.store.DropBanCache(ctx, userID); err != nil {
		g.log.WithError(err).WithField("user_id", userID).Warn("ban cache delete failed")
	}
	g.log.WithFields(logrus.Fields{"user_id": userID, "lifted": lifted}).Info("user unbanned")
	return nil
}

// SubmitVerification stores a pending verification request, replacing any earlier one.
func (g *Gate) SubmitVerification(ctx context.Context, userID string, docType models.DocumentType, docRef string) (*models.Verification, error) {
	if !docType.Valid() {
		return nil, apperror.Validation(fmt.Errorf("unknown document type %q", docType))
	}
	if _, err := g.store.GetUserByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user")
	}

	v := &models.Verification{
		UserID:       userID,
		DocumentType: docType,
		DocumentRef:  docRef,
		Status:       models.VerificationPending,
	}
	if err := g.store.UpsertVerification(ctx, v); err != nil {
		return nil, apperror.Transient(err)
	}
	return v, nil
}

// ReviewVerification approves or rejects a pending verification.
func (g *Gate) ReviewVerification(ctx context.Context, userID string, status models.VerificationStatus) error {
	if status != models.VerificationVerified && status != models.VerificationRejected {
		return apperror.Validation(fmt.Errorf("review status must be VERIFIED or REJECTED, got %q", status))
	}
	if err := g.store.SetVerificationStatus(ctx, userID, status, g.now().UTC()); err != nil {
		return notFoundOr(err, "verification")
	}
	g.log.WithFields(logrus.Fields{"user_id": userID, "status": status}).Info("verification reviewed")
	return nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(what)
	}
	return apperror.Transient(err)
}
