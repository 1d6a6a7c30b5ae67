package storage

import (
	"context"
	"errors"
	"time"

	"aurachat/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateRatingOncePerDay inserts rating unless the same rater already rated the
// same ratee inside [dayStart, dayEnd). It reports whether the row was created.
// The rater's user row is locked so concurrent submissions cannot both pass the check.
func (s *Service) CreateRatingOncePerDay(ctx context.Context, rating *models.Rating, dayStart, dayEnd time.Time) (bool, error) {
	created := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rater models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", rating.RaterID).Take(&rater).Error; err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.Rating{}).
			Where("rater_id = ? AND ratee_id = ?", rating.RaterID, rating.RateeID).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// RatingStats returns how many ratings the user received and their average stars.
func (s *Service) RatingStats(ctx context.Context, userID string) (int64, float64, error) {
	var row struct {
		Count int64
		Avg   float64
	}
	err := s.DB.WithContext(ctx).Model(&models.Rating{}).
		Select("COUNT(*) AS count, COALESCE(AVG(stars), 0) AS avg").
		Where("ratee_id = ?", userID).
		Scan(&row).Error
	return row.Count, row.Avg, err
}

func (s *Service) CreateReport(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportOpen
	}
	return s.DB.WithContext(ctx).Create(report).Error
}

func (s *Service) UpdateReportStatus(ctx context.Context, reportID uint, status models.ReportStatus) error {
	res := s.DB.WithContext(ctx).Model(&models.Report{}).Where("id = ?", reportID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStreak loads (or creates) the user's streak row under a row lock,
// lets apply mutate it and saves it when apply reports a change.
func (s *Service) UpdateStreak(ctx context.Context, userID string, apply func(*models.Streak) bool) (*models.Streak, error) {
	var streak models.Streak
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Streak{UserID: userID}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).Take(&streak).Error; err != nil {
			return err
		}
		if !apply(&streak) {
			return nil
		}
		return tx.Save(&streak).Error
	})
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// RecalculateAura reads the aura facts of a user and upserts the snapshot that
// compute derives from them, in one transaction. The user row is locked first,
// so the snapshot written last was computed from the latest committed facts.
func (s *Service) RecalculateAura(ctx context.Context, userID string, compute func(models.AuraFacts) models.AuraScore) (*models.AuraScore, error) {
	var score models.AuraScore
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).Take(&user).Error; err != nil {
			return err
		}

		facts, err := loadAuraFacts(tx, userID)
		if err != nil {
			return err
		}

		score = compute(facts)
		score.UserID = userID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(&score).Error
	})
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func loadAuraFacts(tx *gorm.DB, userID string) (models.AuraFacts, error) {
	facts := models.AuraFacts{StarCounts: make(map[int]int64)}

	var rows []struct {
		Stars int
		Count int64
	}
	err := tx.Model(&models.Rating{}).
		Select("stars, COUNT(*) AS count").
		Where("ratee_id = ?", userID).
		Group("stars").
		Scan(&rows).Error
	if err != nil {
		return facts, err
	}
	for _, r := range rows {
		facts.StarCounts[r.Stars] = r.Count
	}

	var streak models.Streak
	err = tx.Where("user_id = ?", userID).Take(&streak).Error
	switch {
	case err == nil:
		facts.CurrentStreak = streak.CurrentStreak
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return facts, err
	}

	var verification models.Verification
	err = tx.Where("user_id = ?", userID).Take(&verification).Error
	switch {
	case err == nil:
		facts.Verified = verification.Status == models.VerificationVerified
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return facts, err
	}

	// Every report counts, whatever its moderation status.
	if err := tx.Model(&models.Report{}).Where("reported_id = ?", userID).Count(&facts.ReportCount).Error; err != nil {
		return facts, err
	}
	return facts, nil
}
