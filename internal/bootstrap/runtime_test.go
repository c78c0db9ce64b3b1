package bootstrap

import (
	"testing"

	"commune/internal/config"
	"commune/internal/database"
	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupBootstrapDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func TestEnsureDevStaffUserCreatesAccount(t *testing.T) {
	db := setupBootstrapDB(t)
	cfg := &config.Config{
		Env:               "development",
		DevBootstrapStaff: true,
		DevStaffUsername:  "ops",
		DevStaffEmail:     "Ops@Example.com",
		DevStaffPassword:  "bootstrap-secret",
	}

	require.NoError(t, ensureDevStaffUser(cfg, db))

	var staff models.User
	require.NoError(t, db.First(&staff, 1).Error)
	assert.Equal(t, "ops", staff.Username)
	assert.Equal(t, "ops@example.com", staff.Email)
	assert.True(t, staff.IsStaff)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte("bootstrap-secret")))
}

func TestEnsureDevStaffUserPromotesExistingUser(t *testing.T) {
	db := setupBootstrapDB(t)
	existing := models.User{ID: 1, Username: "first", Email: "first@example.com", Password: "x"}
	require.NoError(t, db.Create(&existing).Error)

	cfg := &config.Config{
		Env:               "development",
		DevBootstrapStaff: true,
		DevStaffPassword:  "bootstrap-secret",
	}
	require.NoError(t, ensureDevStaffUser(cfg, db))

	var staff models.User
	require.NoError(t, db.First(&staff, 1).Error)
	assert.Equal(t, "first", staff.Username)
	assert.True(t, staff.IsStaff)
}

func TestEnsureDevStaffUserRequiresPassword(t *testing.T) {
	db := setupBootstrapDB(t)
	cfg := &config.Config{Env: "development", DevBootstrapStaff: true}

	err := ensureDevStaffUser(cfg, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV_STAFF_PASSWORD")
}

func TestEnsureDevStaffUserSkipsOutsideDevelopment(t *testing.T) {
	db := setupBootstrapDB(t)
	cfg := &config.Config{
		Env:               "production",
		DevBootstrapStaff: true,
		DevStaffPassword:  "bootstrap-secret",
	}

	require.NoError(t, ensureDevStaffUser(cfg, db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
