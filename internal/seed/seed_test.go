package seed

import (
	"testing"

	"commune/internal/database"
	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func TestSeedPopulatesDatabase(t *testing.T) {
	db := setupSeedDB(t)

	err := Seed(db, Options{NumUsers: 12, NumPosts: 20, NumGroups: 4})
	require.NoError(t, err)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 12, userCount)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.EqualValues(t, 20, postCount)

	var groupCount int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	assert.EqualValues(t, 4, groupCount)

	// The well-known accounts exist and only the moderator is staff
	var mod models.User
	require.NoError(t, db.Where("username = ?", "moderator").First(&mod).Error)
	assert.True(t, mod.IsStaff)
	var ada models.User
	require.NoError(t, db.Where("username = ?", "ada").First(&ada).Error)
	assert.False(t, ada.IsStaff)

	// Every user carries a profile row
	var profileCount int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profileCount).Error)
	assert.EqualValues(t, userCount, profileCount)
}

func TestSeedFriendshipEdgesAreMutual(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 10, NumPosts: 0, NumGroups: 0}))

	var edges []models.Friend
	require.NoError(t, db.Find(&edges).Error)

	seen := make(map[[2]uint]bool, len(edges))
	for _, e := range edges {
		seen[[2]uint{e.UserID, e.FriendID}] = true
	}
	for _, e := range edges {
		assert.True(t, seen[[2]uint{e.FriendID, e.UserID}],
			"edge %d->%d has no reverse edge", e.UserID, e.FriendID)
	}
}

func TestSeedGroupCreatorIsApprovedManager(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 8, NumPosts: 0, NumGroups: 3}))

	var groups []models.Group
	require.NoError(t, db.Find(&groups).Error)
	require.Len(t, groups, 3)

	for _, g := range groups {
		var m models.Membership
		require.NoError(t, db.Where("group_id = ? AND user_id = ?", g.ID, g.CreatorID).First(&m).Error)
		assert.True(t, m.Approved)
		assert.Equal(t, models.MembershipRoleManager, m.Role)
	}

	// Group posts only come from approved members
	var groupPosts []models.GroupPost
	require.NoError(t, db.Find(&groupPosts).Error)
	for _, p := range groupPosts {
		var m models.Membership
		require.NoError(t, db.Where("group_id = ? AND user_id = ? AND approved = ?",
			p.GroupID, p.AuthorID, true).First(&m).Error)
	}
}

func TestSeedShouldCleanRemovesExistingRows(t *testing.T) {
	db := setupSeedDB(t)

	stale := models.User{Username: "leftover", Email: "leftover@example.com", Password: "x"}
	require.NoError(t, db.Create(&stale).Error)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 0, NumGroups: 0, ShouldClean: true}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "leftover").Count(&count).Error)
	assert.Zero(t, count)

	var total int64
	require.NoError(t, db.Model(&models.User{}).Count(&total).Error)
	assert.EqualValues(t, 5, total)
}
