// Package streak tracks consecutive calendar days of user activity.
package streak

import (
	"context"
	"errors"
	"time"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// State is the streak counters of one user.
type State struct {
	Current   int
	Longest   int
	LastVisit *time.Time
}

// DateOf returns the calendar date of t (in t's location) as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Advance applies one day of activity to s and reports whether anything changed.
//
//   - no previous visit: current=1, longest=max(longest,1)
//   - same day: unchanged
//   - the day after the last visit: current+1, longest=max(longest,current)
//   - any other date, including earlier ones: current=1, longest unchanged
func Advance(s State, today time.Time) (State, bool) {
	today = DateOf(today)

	if s.LastVisit == nil {
		s.Current = 1
		s.Longest = max(s.Longest, 1)
		s.LastVisit = &today
		return s, true
	}

	last := DateOf(s.LastVisit.UTC())
	switch {
	case last.Equal(today):
		return s, false
	case last.AddDate(0, 0, 1).Equal(today):
		s.Current++
		s.Longest = max(s.Longest, s.Current)
	default:
		s.Current = 1
	}
	s.LastVisit = &today
	return s, true
}

// Store is the part of the ledger the tracker needs.
type Store interface {
	UpdateStreak(ctx context.Context, userID string, apply func(*models.Streak) bool) (*models.Streak, error)
}

// Tracker records qualifying activity.
type Tracker struct {
	store Store
	log   logrus.FieldLogger
}

func NewTracker(store Store, log logrus.FieldLogger) *Tracker {
	return &Tracker{store: store, log: log}
}

// RecordActivity advances the user's streak for the calendar day of today.
// Repeated calls on the same day leave the streak untouched.
func (t *Tracker) RecordActivity(ctx context.Context, userID string, today time.Time) (*models.Streak, error) {
	streak, _, err := t.record(ctx, userID, today)
	return streak, err
}

func (t *Tracker) record(ctx context.Context, userID string, today time.Time) (*models.Streak, bool, error) {
	if userID == "" {
		return nil, false, apperror.Validation(errors.New("user id is required"))
	}

	var changed bool
	streak, err := t.store.UpdateStreak(ctx, userID, func(row *models.Streak) bool {
		var next State
		next, changed = Advance(State{Current: row.CurrentStreak, Longest: row.LongestStreak, LastVisit: row.LastVisitDate}, today)
		row.CurrentStreak, row.LongestStreak, row.LastVisitDate = next.Current, next.Longest, next.LastVisit
		return changed
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperror.NotFound("streak")
	}
	if err != nil {
		return nil, false, apperror.Transient(err)
	}

	if changed {
		t.log.WithFields(logrus.Fields{
			"user_id": userID,
			"current": streak.CurrentStreak,
			"longest": streak.LongestStreak,
		}).Debug("streak advanced")
	}
	return streak, changed, nil
}
