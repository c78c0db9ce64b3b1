package repository

import (
	"context"
	"testing"

	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockRepository_BlockRemovesFriendship(t *testing.T) {
	db := setupTestDB(t)
	blocks := NewBlockRepository(db)
	friends := NewFriendRepository(db)
	ctx := context.Background()

	u1 := createTestUser(t, db, "b1")
	u2 := createTestUser(t, db, "b2")

	// Establish a friendship first.
	_, err := friends.CreateRequest(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	require.NoError(t, friends.AcceptRequest(ctx, u1.ID, u2.ID))

	created, err := blocks.Block(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// Friendship is gone in both directions.
	ok, err := friends.AreFriends(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var edges int64
	db.Model(&models.Friend{}).Count(&edges)
	assert.EqualValues(t, 0, edges)
}

func TestBlockRepository_BlockClearsPendingRequests(t *testing.T) {
	db := setupTestDB(t)
	blocks := NewBlockRepository(db)
	friends := NewFriendRepository(db)
	ctx := context.Background()

	u1 := createTestUser(t, db, "p1")
	u2 := createTestUser(t, db, "p2")

	_, err := friends.CreateRequest(ctx, u2.ID, u1.ID)
	require.NoError(t, err)

	_, err = blocks.Block(ctx, u1.ID, u2.ID)
	require.NoError(t, err)

	var requests int64
	db.Model(&models.FriendRequest{}).Count(&requests)
	assert.EqualValues(t, 0, requests)
}

func TestBlockRepository_Idempotency(t *testing.T) {
	db := setupTestDB(t)
	blocks := NewBlockRepository(db)
	ctx := context.Background()

	u1 := createTestUser(t, db, "i1")
	u2 := createTestUser(t, db, "i2")

	created, err := blocks.Block(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = blocks.Block(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&models.Block{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestBlockRepository_DirectionAndUnblock(t *testing.T) {
	db := setupTestDB(t)
	blocks := NewBlockRepository(db)
	ctx := context.Background()

	u1 := createTestUser(t, db, "u1")
	u2 := createTestUser(t, db, "u2")

	_, err := blocks.Block(ctx, u1.ID, u2.ID)
	require.NoError(t, err)

	// Direct check is directional, either-way check is not.
	ok, err := blocks.IsBlocked(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = blocks.IsBlocked(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = blocks.IsBlockedEitherWay(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	listed, err := blocks.GetBlockedUsers(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, u2.ID, listed[0].ID)

	require.NoError(t, blocks.Unblock(ctx, u1.ID, u2.ID))

	ok, err = blocks.IsBlockedEitherWay(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unblocking a non-existent block reports not found.
	err = blocks.Unblock(ctx, u1.ID, u2.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
