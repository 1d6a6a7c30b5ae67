package storage

import (
	"context"
	"time"

	"aurachat/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the score ledger: every persisted fact the core reads or writes.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	SetTelegramChatID(ctx context.Context, userID string, chatID int64) error

	CreateRatingOncePerDay(ctx context.Context, rating *models.Rating, dayStart, dayEnd time.Time) (bool, error)
	RatingStats(ctx context.Context, userID string) (int64, float64, error)
	CreateReport(ctx context.Context, report *models.Report) error
	UpdateReportStatus(ctx context.Context, reportID uint, status models.ReportStatus) error

	UpdateStreak(ctx context.Context, userID string, apply func(*models.Streak) bool) (*models.Streak, error)
	RecalculateAura(ctx context.Context, userID string, compute func(models.AuraFacts) models.AuraScore) (*models.AuraScore, error)

	CreateConnection(ctx context.Context, conn *models.Connection) (bool, error)
	EdgeExists(ctx context.Context, fromID, toID string) (bool, error)
	DeleteConnectionPair(ctx context.Context, a, b string) error
	ListMutualConnections(ctx context.Context, userID string) ([]string, error)

	SaveMessage(ctx context.Context, msg *models.Message) error
	MarkMessageRead(ctx context.Context, messageID uint, readerID, senderID string, at time.Time) (bool, error)
	GetConversation(ctx context.Context, a, b string, limit int) ([]models.Message, error)

	HasActiveBan(ctx context.Context, userID string) (bool, error)
	CreateBan(ctx context.Context, ban *models.Ban) error
	DeactivateBans(ctx context.Context, userID string) (int64, error)
	CachedBanStatus(ctx context.Context, userID string) (banned bool, found bool, err error)
	CacheBanStatus(ctx context.Context, userID string, banned bool, ttl time.Duration) error
	FillBanCache(ctx context.Context, userID string, banned bool, ttl time.Duration) error
	DropBanCache(ctx context.Context, userID string) error

	GetVerification(ctx context.Context, userID string) (*models.Verification, error)
	UpsertVerification(ctx context.Context, v *models.Verification) error
	SetVerificationStatus(ctx context.Context, userID string, status models.VerificationStatus, reviewedAt time.Time) error
}

// Service implements Storage on top of PostgreSQL (gorm) and Redis.
// Redis may be nil, in which case cache lookups always miss.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates every table of the ledger.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
