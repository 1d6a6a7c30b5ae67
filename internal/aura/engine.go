// Package aura computes the Aura trust score of a user from ledger facts.
//
// Compute is the pure formula. Engine wraps it with persistence: Recalculate
// reads the facts and stores a fresh snapshot atomically, and Breakdown always
// recalculates before answering.
package aura

import (
	"context"
	"errors"
	"time"

	"aurachat/backend/internal/analysis"
	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/config"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Breakdown is the aura total with every component and the display tier.
type Breakdown struct {
	Total           int  `json:"total"`
	RatingComponent int  `json:"rating_component"`
	StreakComponent int  `json:"streak_component"`
	VerifiedBonus   int  `json:"verified_bonus"`
	ReportPenalty   int  `json:"report_penalty"`
	Tier            Tier `json:"tier"`
}

// Compute applies the aura formula to f. The total never drops below zero.
func Compute(f models.AuraFacts) Breakdown {
	var b Breakdown
	for stars, count := range f.StarCounts {
		b.RatingComponent += analysis.RatingWeight(stars) * int(count)
	}
	b.StreakComponent = f.CurrentStreak * config.StreakPointsPerDay
	if f.Verified {
		b.VerifiedBonus = config.VerifiedBonus
	}
	b.ReportPenalty = int(f.ReportCount) * config.ReportPenalty

	b.Total = max(0, b.RatingComponent+b.StreakComponent+b.VerifiedBonus-b.ReportPenalty)
	b.Tier = TierFor(b.Total)
	return b
}

// BreakdownOf rebuilds a Breakdown from a stored snapshot.
func BreakdownOf(s *models.AuraScore) Breakdown {
	return Breakdown{
		Total:           s.Total,
		RatingComponent: s.RatingComponent,
		StreakComponent: s.StreakComponent,
		VerifiedBonus:   s.VerifiedBonus,
		ReportPenalty:   s.ReportPenalty,
		Tier:            TierFor(s.Total),
	}
}

// Store is the part of the ledger the engine needs.
type Store interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	RecalculateAura(ctx context.Context, userID string, compute func(models.AuraFacts) models.AuraScore) (*models.AuraScore, error)
}

// Engine recalculates and persists aura snapshots.
type Engine struct {
	store   Store
	metrics *metrics.Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewEngine(store Store, m *metrics.Metrics, log logrus.FieldLogger) *Engine {
	return &Engine{store: store, metrics: m, log: log, now: time.Now}
}

// Recalculate recomputes the user's aura from the current facts and stores it.
// Calling it again without new facts yields the same snapshot values.
func (e *Engine) Recalculate(ctx context.Context, userID string) (*models.AuraScore, error) {
	if userID == "" {
		return nil, apperror.Validation(errors.New("user id is required"))
	}

	now := e.now().UTC()
	score, err := e.store.RecalculateAura(ctx, userID, func(f models.AuraFacts) models.AuraScore {
		b := Compute(f)
		return models.AuraScore{
			RatingComponent:  b.RatingComponent,
			StreakComponent:  b.StreakComponent,
			VerifiedBonus:    b.VerifiedBonus,
			ReportPenalty:    b.ReportPenalty,
			Total:            b.Total,
			LastRecalculated: now,
		}
	})
	if err != nil {
		e.metrics.AuraRecalculationsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Transient(err)
	}

	e.metrics.AuraRecalculationsTotal.WithLabelValues("success").Inc()
	e.log.WithFields(logrus.Fields{"user_id": userID, "total": score.Total}).Debug("aura recalculated")
	return score, nil
}

// Breakdown recalculates the user's aura and returns its components and tier.
func (e *Engine) Breakdown(ctx context.Context, userID string) (Breakdown, error) {
	score, err := e.Recalculate(ctx, userID)
	if err != nil {
		return Breakdown{}, err
	}
	return BreakdownOf(score), nil
}

// RecalculateAll refreshes every user's snapshot and returns how many succeeded.
// Individual failures are logged and skipped.
func (e *Engine) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := e.store.ListUserIDs(ctx)
	if err != nil {
		return 0, apperror.Transient(err)
	}

	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := e.Recalculate(ctx, id); err != nil {
			e.log.WithError(err).WithField("user_id", id).Warn("aura recalculation failed")
			continue
		}
		done++
	}
	return done, nil
}
