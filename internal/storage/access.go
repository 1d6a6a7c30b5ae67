package storage

import (
	"context"
	"errors"
	"time"

	"aurachat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const banKeyPrefix = "ban:"

func (s *Service) HasActiveBan(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Ban{}).
		Where("user_id = ? AND active = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) CreateBan(ctx context.Context, ban *models.Ban) error {
	ban.Active = true
	return s.DB.WithContext(ctx).Create(ban).Error
}

// DeactivateBans lifts every active ban of the user and returns how many were lifted.
func (s *Service) DeactivateBans(ctx context.Context, userID string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Ban{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

// CachedBanStatus reads the Redis ban cache. found is false on a cache miss.
func (s *Service) CachedBanStatus(ctx context.Context, userID string) (bool, bool, error) {
	if s.Redis == nil {
		return false, false, nil
	}
	status, err := s.Redis.Get(ctx, banKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return status == "1", true, nil
}

func (s *Service) CacheBanStatus(ctx context.Context, userID string, banned bool, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	value := "0"
	if banned {
		value = "1"
	}
	return s.Redis.Set(ctx, banKeyPrefix+userID, value, ttl).Err()
}

// FillBanCache stores the status only when the key is absent, so it never
// replaces a status written by CacheBanStatus in the meantime.
func (s *Service) FillBanCache(ctx context.Context, userID string, banned bool, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	value := "0"
	if banned {
		value = "1"
	}
	return s.Redis.SetNX(ctx, banKeyPrefix+userID, value, ttl).Err()
}

func (s *Service) DropBanCache(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, banKeyPrefix+userID).Err()
}

// GetVerification returns nil, nil when the user never submitted a verification.
func (s *Service) GetVerification(ctx context.Context, userID string) (*models.Verification, error) {
	var v models.Verification
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpsertVerification stores v, resetting any earlier review of the same user.
func (s *Service) UpsertVerification(ctx context.Context, v *models.Verification) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document_type", "document_ref", "status", "reviewed_at"}),
	}).Create(v).Error
}

func (s *Service) SetVerificationStatus(ctx context.Context, userID string, status models.VerificationStatus, reviewedAt time.Time) error {
	res := s.DB.WithContext(ctx).Model(&models.Verification{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"status": status, "reviewed_at": reviewedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
