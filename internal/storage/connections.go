package storage

import (
	"context"

	"aurachat/backend/internal/models"

	"gorm.io/gorm/clause"
)

// CreateConnection inserts the edge and reports false when it already existed.
func (s *Service) CreateConnection(ctx context.Context, conn *models.Connection) (bool, error) {
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(conn)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Service) EdgeExists(ctx context.Context, fromID, toID string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Connection{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// DeleteConnectionPair removes a->b and b->a. Missing edges are not an error.
func (s *Service) DeleteConnectionPair(ctx context.Context, a, b string) error {
	return s.DB.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Delete(&models.Connection{}).Error
}

// ListMutualConnections returns users with edges in both directions to userID.
func (s *Service) ListMutualConnections(ctx context.Context, userID string) ([]string, error) {
	incoming := s.DB.Model(&models.Connection{}).Select("from_user_id").Where("to_user_id = ?", userID)

	var ids []string
	err := s.DB.WithContext(ctx).Model(&models.Connection{}).
		Where("from_user_id = ?", userID).
		Where("to_user_id IN (?)", incoming).
		Order("to_user_id").
		Pluck("to_user_id", &ids).Error
	return ids, err
}
