package streak_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/storage/storagetest"
	"aurachat/backend/internal/streak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var d0 = time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

func TestAdvance_Sequence(t *testing.T) {
	dates := []time.Time{d0, d0.Add(15 * time.Hour), d0.AddDate(0, 0, 1), d0.AddDate(0, 0, 3)}
	wantCurrent := []int{1, 1, 2, 1}
	wantLongest := []int{1, 1, 2, 2}

	var s streak.State
	for i, date := range dates {
		s, _ = streak.Advance(s, date)
		assert.Equal(t, wantCurrent[i], s.Current, "step %d current", i)
		assert.Equal(t, wantLongest[i], s.Longest, "step %d longest", i)
	}
}

func TestAdvance_Transitions(t *testing.T) {
	last := d0
	tests := []struct {
		name        string
		state       streak.State
		today       time.Time
		wantCurrent int
		wantLongest int
		wantChanged bool
	}{
		{"unset keeps higher longest", streak.State{Longest: 5}, d0, 1, 5, true},
		{"same day is a no-op", streak.State{Current: 3, Longest: 4, LastVisit: &last}, d0.Add(23 * time.Hour), 3, 4, false},
		{"consecutive day extends", streak.State{Current: 4, Longest: 4, LastVisit: &last}, d0.AddDate(0, 0, 1), 5, 5, true},
		{"consecutive day below longest", streak.State{Current: 1, Longest: 9, LastVisit: &last}, d0.AddDate(0, 0, 1), 2, 9, true},
		{"gap resets", streak.State{Current: 7, Longest: 7, LastVisit: &last}, d0.AddDate(0, 0, 2), 1, 7, true},
		{"earlier date resets", streak.State{Current: 7, Longest: 8, LastVisit: &last}, d0.AddDate(0, 0, -1), 1, 8, true},
		{"month boundary", streak.State{Current: 1, Longest: 1, LastVisit: &last}, time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC), 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := streak.Advance(tt.state, tt.today)
			assert.Equal(t, tt.wantCurrent, got.Current)
			assert.Equal(t, tt.wantLongest, got.Longest)
			assert.Equal(t, tt.wantChanged, changed)
			require.NotNil(t, got.LastVisit)
		})
	}
}

func TestTracker_RecordActivity_Persists(t *testing.T) {
	ctx := context.Background()
	s, _ := storagetest.NewService(t)
	tracker := streak.NewTracker(s, logger.Discard())

	var got []int
	for _, date := range []time.Time{d0, d0, d0.AddDate(0, 0, 1), d0.AddDate(0, 0, 3)} {
		row, err := tracker.RecordActivity(ctx, "u1", date.Add(10*time.Hour))
		require.NoError(t, err)
		got = append(got, row.CurrentStreak)
	}
	assert.Equal(t, []int{1, 1, 2, 1}, got)

	var stored models.Streak
	require.NoError(t, s.DB.Where("user_id = ?", "u1").Take(&stored).Error)
	assert.Equal(t, 2, stored.LongestStreak)
	require.NotNil(t, stored.LastVisitDate)
	assert.True(t, stored.LastVisitDate.Equal(d0.AddDate(0, 0, 3)))
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpdateStreak(ctx context.Context, userID string, apply func(*models.Streak) bool) (*models.Streak, error) {
	args := m.Called(ctx, userID, apply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Streak), args.Error(1)
}

func TestTracker_RecordActivity_Errors(t *testing.T) {
	store := new(mockStore)
	tracker := streak.NewTracker(store, logger.Discard())

	_, err := tracker.RecordActivity(context.Background(), "", d0)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	store.On("UpdateStreak", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("connection refused"))
	_, err = tracker.RecordActivity(context.Background(), "u1", d0)
	assert.Equal(t, apperror.KindTransient, apperror.KindOf(err))
	store.AssertExpectations(t)
}
