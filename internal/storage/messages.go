package storage

import (
	"context"
	"slices"
	"time"

	"aurachat/backend/internal/models"
)

// SaveMessage persists msg; ID and CreatedAt are filled by gorm.
func (s *Service) SaveMessage(ctx context.Context, msg *models.Message) error {
	return s.DB.WithContext(ctx).Create(msg).Error
}

// MarkMessageRead flips is_read on a message senderID sent to readerID.
// It reports false when the message is missing, belongs to another conversation or is already read.
func (s *Service) MarkMessageRead(ctx context.Context, messageID uint, readerID, senderID string, at time.Time) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND receiver_id = ? AND sender_id = ? AND is_read = ?", messageID, readerID, senderID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// GetConversation returns the latest limit messages exchanged between a and b,
// oldest first. A non-positive limit returns the whole conversation.
func (s *Service) GetConversation(ctx context.Context, a, b string, limit int) ([]models.Message, error) {
	q := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var history []models.Message
	if err := q.Find(&history).Error; err != nil {
		return nil, err
	}
	slices.Reverse(history)
	return history, nil
}
