package repository

import (
	"fmt"
	"os"
	"testing"
	"time"

	"commune/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// setupTestDB opens a fresh in-memory database with the full schema so each
// test starts clean.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.FriendRequest{},
		&models.Friend{},
		&models.Block{},
		&models.Follow{},
		&models.Group{},
		&models.Membership{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.GroupPost{},
		&models.GroupPostLike{},
		&models.GroupComment{},
	))

	return db
}

var userSeq int

// createTestUser inserts a user with unique username/email.
func createTestUser(t *testing.T, db *gorm.DB, prefix string) *models.User {
	t.Helper()

	userSeq++
	u := &models.User{
		Username: fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), userSeq),
		Email:    fmt.Sprintf("%s_%d_%d@example.com", prefix, time.Now().UnixNano(), userSeq),
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
