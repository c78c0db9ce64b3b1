package repository

import (
	"context"
	"testing"

	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPostRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	groups := NewGroupRepository(db)
	repo := NewGroupPostRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "gpc")
	group := &models.Group{Name: "Posters", CreatorID: creator.ID}
	require.NoError(t, groups.Create(ctx, group))

	post := &models.GroupPost{GroupID: group.ID, AuthorID: creator.ID, Content: "inside"}
	require.NoError(t, repo.Create(ctx, post))

	t.Run("listing scoped to group", func(t *testing.T) {
		other := &models.Group{Name: "Elsewhere", CreatorID: creator.ID}
		require.NoError(t, groups.Create(ctx, other))
		require.NoError(t, repo.Create(ctx, &models.GroupPost{
			GroupID: other.ID, AuthorID: creator.ID, Content: "other",
		}))

		listed, err := repo.GetByGroupID(ctx, group.ID, 10, 0, 0)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "inside", listed[0].Content)
	})

	t.Run("toggle like", func(t *testing.T) {
		count, active, err := repo.ToggleLike(ctx, creator.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, active)
		assert.EqualValues(t, 1, count)

		count, active, err = repo.ToggleLike(ctx, creator.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, active)
		assert.EqualValues(t, 0, count)
	})

	t.Run("comments", func(t *testing.T) {
		require.NoError(t, repo.CreateComment(ctx, &models.GroupComment{
			GroupPostID: post.ID, AuthorID: creator.ID, Content: "flat",
		}))

		comments, err := repo.GetComments(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "flat", comments[0].Content)
		assert.Equal(t, creator.ID, comments[0].Author.ID)
	})

	t.Run("delete cascades likes and comments", func(t *testing.T) {
		_, _, err := repo.ToggleLike(ctx, creator.ID, post.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, post.ID))

		var comments, likes int64
		db.Unscoped().Model(&models.GroupComment{}).Where("group_post_id = ?", post.ID).Count(&comments)
		db.Unscoped().Model(&models.GroupPostLike{}).Where("group_post_id = ?", post.ID).Count(&likes)
		assert.EqualValues(t, 0, comments)
		assert.EqualValues(t, 0, likes)

		_, err = repo.GetByID(ctx, post.ID, 0)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})
}
