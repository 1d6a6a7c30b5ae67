package streak

import (
	"context"
	"time"

	"aurachat/backend/internal/models"

	"github.com/sirupsen/logrus"
)

// Recalculator refreshes a user's aura snapshot.
type Recalculator interface {
	Recalculate(ctx context.Context, userID string) (*models.AuraScore, error)
}

// Activity is the entry point for qualifying user actions: it advances the
// streak and, when the streak moved, refreshes the user's aura.
type Activity struct {
	tracker *Tracker
	aura    Recalculator
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewActivity(tracker *Tracker, aura Recalculator, log logrus.FieldLogger) *Activity {
	return &Activity{tracker: tracker, aura: aura, log: log, now: time.Now}
}

// WithClock replaces the time source.
func (a *Activity) WithClock(now func() time.Time) *Activity {
	a.now = now
	return a
}

// Record registers one qualifying action by userID at the current time.
// A failed aura refresh is logged; the streak result is still returned.
func (a *Activity) Record(ctx context.Context, userID string) (*models.Streak, error) {
	streak, changed, err := a.tracker.record(ctx, userID, a.now())
	if err != nil {
		return nil, err
	}
	if changed {
		if _, err := a.aura.Recalculate(ctx, userID); err != nil {
			a.log.WithError(err).WithField("user_id", userID).Warn("aura refresh after streak change failed")
		}
	}
	return streak, nil
}
