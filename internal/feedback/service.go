// Package feedback handles what users say about each other: star ratings and
// abuse reports, plus the peer statistics derived from them. Every accepted
// rating or report triggers an aura recalculation of its target.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"aurachat/backend/internal/analysis"
	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/config"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/streak"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store is the part of the ledger feedback needs.
type Store interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	CreateRatingOncePerDay(ctx context.Context, rating *models.Rating, dayStart, dayEnd time.Time) (bool, error)
	RatingStats(ctx context.Context, userID string) (int64, float64, error)
	CreateReport(ctx context.Context, report *models.Report) error
	UpdateReportStatus(ctx context.Context, reportID uint, status models.ReportStatus) error
}

// BanChecker rejects actions of banned users.
type BanChecker interface {
	EnsureNotBanned(ctx context.Context, userID string) error
}

// Recalculator refreshes a user's aura snapshot.
type Recalculator interface {
	Recalculate(ctx context.Context, userID string) (*models.AuraScore, error)
}

// Service handles the business logic for ratings and reports.
type Service struct {
	store Store
	gate  BanChecker
	aura  Recalculator
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewService creates a new feedback service.
func NewService(store Store, gate BanChecker, aura Recalculator, log logrus.FieldLogger) *Service {
	return &Service{store: store, gate: gate, aura: aura, log: log, now: time.Now}
}

// WithClock replaces the service clock. Used by tests to cross calendar days.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitRating records rater's stars for ratee. A rater may rate the same
// ratee once per calendar day (server clock, UTC).
func (s *Service) SubmitRating(ctx context.Context, raterID, rateeID string, stars int) (*models.Rating, error) {
	if stars < config.MinStars || stars > config.MaxStars {
		return nil, apperror.Validation(apperror.ErrInvalidStars)
	}
	if raterID == rateeID {
		return nil, apperror.Policy(apperror.ErrSelfRating)
	}
	if err := s.gate.EnsureNotBanned(ctx, raterID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, rateeID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := streak.DateOf(now)
	rating := &models.Rating{RaterID: raterID, RateeID: rateeID, Stars: stars, CreatedAt: now}

	created, err := s.store.CreateRatingOncePerDay(ctx, rating, dayStart, dayStart.AddDate(0, 0, 1))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user")
	}
	if err != nil {
		return nil, apperror.Transient(err)
	}
	if !created {
		return nil, apperror.Policy(apperror.ErrDuplicateRating)
	}

	s.log.WithFields(logrus.Fields{"rater_id": raterID, "ratee_id": rateeID, "stars": stars}).Info("rating submitted")
	s.refreshAura(ctx, rateeID)
	return rating, nil
}

// ReportInput is a new abuse report.
type ReportInput struct {
	ReporterID  string
	ReportedID  string
	Reason      string
	Description string
	RoomContext string
}

// SubmitReport files an OPEN report against another user.
func (s *Service) SubmitReport(ctx context.Context, in ReportInput) (*models.Report, error) {
	if in.ReporterID == in.ReportedID {
		return nil, apperror.Policy(apperror.ErrSelfReport)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, apperror.Validation(errors.New("report reason is required"))
	}
	if err := s.ensureUser(ctx, in.ReportedID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID:  in.ReporterID,
		ReportedID:  in.ReportedID,
		Reason:      reason,
		Description: strings.TrimSpace(in.Description),
		RoomKey:     in.RoomContext,
		Status:      models.ReportOpen,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, apperror.Transient(err)
	}

	s.log.WithFields(logrus.Fields{"reporter_id": in.ReporterID, "reported_id": in.ReportedID, "report_id": report.ID}).Info("report submitted")
	s.refreshAura(ctx, in.ReportedID)
	return report, nil
}

// SetReportStatus moves a report through moderation.
// The aura penalty does not depend on the status.
func (s *Service) SetReportStatus(ctx context.Context, reportID uint, status models.ReportStatus) error {
	if !status.Valid() {
		return apperror.Validation(errors.New("unknown report status " + string(status)))
	}
	if err := s.store.UpdateReportStatus(ctx, reportID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("report")
		}
		return apperror.Transient(err)
	}
	return nil
}

// GetPeerStats recalculates the user's aura and summarizes their ratings.
func (s *Service) GetPeerStats(ctx context.Context, userID string) (analysis.PeerStats, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return analysis.PeerStats{}, apperror.NotFound("user")
		}
		return analysis.PeerStats{}, apperror.Transient(err)
	}

	score, err := s.aura.Recalculate(ctx, userID)
	if err != nil {
		return analysis.PeerStats{}, err
	}
	total, avg, err := s.store.RatingStats(ctx, userID)
	if err != nil {
		return analysis.PeerStats{}, apperror.Transient(err)
	}
	return analysis.NewPeerStats(score.Total, avg, total, user.AccountAgeDays(s.now())), nil
}

func (s *Service) ensureUser(ctx context.Context, userID string) error {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return apperror.Transient(err)
	}
	return nil
}

// refreshAura recalculates the target's snapshot. The fact is already stored,
// so a failure here only delays the snapshot until the next recalculation.
func (s *Service) refreshAura(ctx context.Context, userID string) {
	if _, err := s.aura.Recalculate(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("aura refresh failed")
	}
}
