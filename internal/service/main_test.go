package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"commune/internal/models"
	"commune/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type testEnv struct {
	db     *gorm.DB
	posts  *PostService
	groups *GroupService
}

func setupEnv(t *testing.T) *testEnv {
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

	isStaff := func(ctx context.Context, userID uint) (bool, error) {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			return false, err
		}
		return user.IsStaff, nil
	}

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupPostRepo := repository.NewGroupPostRepository(db)

	return &testEnv{
		db:     db,
		posts:  NewPostService(postRepo, commentRepo, groupRepo.GetMembership, isStaff),
		groups: NewGroupService(groupRepo, groupPostRepo, isStaff),
	}
}

var userSeq int

func newUser(t *testing.T, db *gorm.DB, prefix string) *models.User {
	t.Helper()

	userSeq++
	u := &models.User{
		Username: fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), userSeq),
		Email:    fmt.Sprintf("%s_%d_%d@example.com", prefix, time.Now().UnixNano(), userSeq),
		Password: "hashed",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newStaff(t *testing.T, db *gorm.DB, prefix string) *models.User {
	t.Helper()

	u := newUser(t, db, prefix)
	require.NoError(t, db.Model(u).Update("is_staff", true).Error)
	u.IsStaff = true
	return u
}
