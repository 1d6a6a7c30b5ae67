// Package storagetest builds isolated ledger backends for tests:
// an in-memory SQLite database and a miniredis instance per test.
package storagetest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"aurachat/backend/internal/models"
	"aurachat/backend/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, storage.Migrate(db))
	return db
}

// NewRedis starts a miniredis server and returns a client connected to it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

// NewService returns a storage.Service backed by NewDB and NewRedis.
func NewService(t *testing.T) (*storage.Service, *miniredis.Miniredis) {
	t.Helper()
	rdb, mr := NewRedis(t)
	return storage.NewStorageService(NewDB(t), rdb), mr
}

// CreateUsers inserts one user per username and returns them in order.
// CreatedAt is set to createdAt when it is non-zero.
func CreateUsers(t *testing.T, s *storage.Service, createdAt time.Time, usernames ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(usernames))
	for _, name := range usernames {
		u := &models.User{Username: name, CreatedAt: createdAt}
		require.NoError(t, s.CreateUser(context.Background(), u))
		users = append(users, u)
	}
	return users
}
