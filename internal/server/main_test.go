package server

import (
	"fmt"
	"sync/atomic"
	"testing"

	"commune/internal/config"
	"commune/internal/database"
	"commune/internal/media"
	"commune/internal/models"
	"commune/internal/repository"
	"commune/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testUserSeq atomic.Uint64

// setupServerTest builds a Server over a fresh in-memory database. The
// Prometheus middleware is left nil so repeated test runs do not register
// duplicate collectors.
func setupServerTest(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	store, err := media.NewStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("media store: %v", err)
	}

	s := &Server{
		config:        &config.Config{JWTSecret: "test-secret", Env: "test", MediaBaseURL: "/media"},
		db:            db,
		media:         store,
		userRepo:      repository.NewUserRepository(db),
		friendRepo:    repository.NewFriendRepository(db),
		blockRepo:     repository.NewBlockRepository(db),
		followRepo:    repository.NewFollowRepository(db),
		groupRepo:     repository.NewGroupRepository(db),
		postRepo:      repository.NewPostRepository(db),
		commentRepo:   repository.NewCommentRepository(db),
		groupPostRepo: repository.NewGroupPostRepository(db),
	}
	s.postService = service.NewPostService(s.postRepo, s.commentRepo, s.groupRepo.GetMembership, s.isStaffByUserID)
	s.groupService = service.NewGroupService(s.groupRepo, s.groupPostRepo, s.isStaffByUserID)

	return s
}

// authedApp returns a Fiber app whose requests run as the given user.
func authedApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func createServerTestUser(t *testing.T, db *gorm.DB, prefix string) *models.User {
	t.Helper()
	n := testUserSeq.Add(1)
	user := &models.User{
		Username: fmt.Sprintf("%s_%d", prefix, n),
		Email:    fmt.Sprintf("%s_%d@example.com", prefix, n),
		Password: "pw",
		Profile:  &models.Profile{},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
