package repository

import (
	"context"
	"testing"

	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAttachesProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "ada", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByIDWithProfile(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, u.ID, got.Profile.UserID)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "dup", Email: "one@example.com", Password: "h"}))

	err := repo.Create(ctx, &models.User{Username: "dup", Email: "two@example.com", Password: "h"})
	assert.True(t, models.IsCode(err, models.CodeAlreadyExists))
}

func TestUserRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{
		Username: "marisol", Email: "m@example.com", Password: "h",
		FirstName: "Marisol", LastName: "Vega",
	}))
	require.NoError(t, repo.Create(ctx, &models.User{
		Username: "kenji", Email: "k@example.com", Password: "h",
		FirstName: "Kenji", LastName: "Sato",
	}))

	found, err := repo.Search(ctx, "MARI", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "marisol", found[0].Username)

	// Last name matches too.
	found, err = repo.Search(ctx, "sato", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "kenji", found[0].Username)
}

func TestUserRepository_Suggestions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	friends := NewFriendRepository(db)
	blocks := NewBlockRepository(db)
	ctx := context.Background()

	me := createTestUser(t, db, "me")
	friend := createTestUser(t, db, "fr")
	stranger := createTestUser(t, db, "st")
	blocked := createTestUser(t, db, "bl")
	staff := createTestUser(t, db, "ad")
	require.NoError(t, db.Model(staff).Update("is_staff", true).Error)

	_, err := friends.CreateRequest(ctx, me.ID, friend.ID)
	require.NoError(t, err)
	require.NoError(t, friends.AcceptRequest(ctx, me.ID, friend.ID))
	_, err = blocks.Block(ctx, blocked.ID, me.ID)
	require.NoError(t, err)

	suggestions, err := repo.Suggestions(ctx, me.ID, 20)
	require.NoError(t, err)

	ids := make(map[uint]bool, len(suggestions))
	for _, s := range suggestions {
		ids[s.ID] = true
	}

	assert.True(t, ids[stranger.ID], "stranger should be suggested")
	assert.False(t, ids[me.ID], "self must be excluded")
	assert.False(t, ids[friend.ID], "existing friends must be excluded")
	assert.False(t, ids[staff.ID], "staff accounts must be excluded")
	assert.False(t, ids[blocked.ID], "blocked relationships must be excluded")
}

func TestUserRepository_SuggestionsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	me := createTestUser(t, db, "nf")
	older := createTestUser(t, db, "n1")
	newer := createTestUser(t, db, "n2")

	suggestions, err := repo.Suggestions(ctx, me.ID, 20)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, newer.ID, suggestions[0].ID)
	assert.Equal(t, older.ID, suggestions[1].ID)
}

func TestUserRepository_SuggestionsExcludeSingleEdgeFriends(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	me := createTestUser(t, db, "se")
	other := createTestUser(t, db, "so")

	// Edge stored only in the other direction still counts as a friendship.
	require.NoError(t, db.Create(&models.Friend{UserID: other.ID, FriendID: me.ID}).Error)

	suggestions, err := repo.Suggestions(ctx, me.ID, 20)
	require.NoError(t, err)
	for _, s := range suggestions {
		assert.NotEqual(t, other.ID, s.ID)
	}
}
