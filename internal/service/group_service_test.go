package service

import (
	"context"
	"testing"

	"commune/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupService_MembershipStateMachine(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	creator := newUser(t, env.db, "gc")
	joiner := newUser(t, env.db, "gj")
	outsider := newUser(t, env.db, "gt")

	group, err := env.groups.CreateGroup(ctx, CreateGroupInput{CreatorID: creator.ID, Name: "Climbers"})
	require.NoError(t, err)

	t.Run("join goes to pending", func(t *testing.T) {
		res, err := env.groups.Join(ctx, joiner.ID, group.ID)
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.False(t, res.Membership.Approved)
	})

	t.Run("repeat join reports existing state", func(t *testing.T) {
		res, err := env.groups.Join(ctx, joiner.ID, group.ID)
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.False(t, res.Membership.Approved)
	})

	t.Run("pending member cannot post", func(t *testing.T) {
		_, err := env.groups.CreateGroupPost(ctx, joiner.ID, group.ID, "too early", "")
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("only the creator approves", func(t *testing.T) {
		err := env.groups.ApproveMember(ctx, outsider.ID, joiner.ID, group.ID)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))

		require.NoError(t, env.groups.ApproveMember(ctx, creator.ID, joiner.ID, group.ID))
	})

	t.Run("approved member can post and like", func(t *testing.T) {
		post, err := env.groups.CreateGroupPost(ctx, joiner.ID, group.ID, "hello group", "")
		require.NoError(t, err)

		count, active, err := env.groups.ToggleGroupPostLike(ctx, joiner.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, active)
		assert.EqualValues(t, 1, count)

		_, err = env.groups.CreateGroupComment(ctx, creator.ID, post.ID, "welcome")
		require.NoError(t, err)
	})

	t.Run("non member cannot read group posts", func(t *testing.T) {
		_, err := env.groups.ListGroupPosts(ctx, outsider.ID, group.ID, 10, 0)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("member can leave, creator can kick, creator cannot be removed", func(t *testing.T) {
		err := env.groups.RemoveMember(ctx, outsider.ID, joiner.ID, group.ID)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))

		err = env.groups.RemoveMember(ctx, creator.ID, creator.ID, group.ID)
		assert.True(t, models.IsCode(err, models.CodeInvalidOperation))

		require.NoError(t, env.groups.RemoveMember(ctx, joiner.ID, joiner.ID, group.ID))

		// Back to none; a fresh join is pending again.
		res, err := env.groups.Join(ctx, joiner.ID, group.ID)
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.False(t, res.Membership.Approved)
	})
}

func TestGroupService_PendingListVisibleToCreatorOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	creator := newUser(t, env.db, "pv")
	joiner := newUser(t, env.db, "pj")

	group, err := env.groups.CreateGroup(ctx, CreateGroupInput{CreatorID: creator.ID, Name: "Secret"})
	require.NoError(t, err)
	_, err = env.groups.Join(ctx, joiner.ID, group.ID)
	require.NoError(t, err)

	_, err = env.groups.ListPendingMembers(ctx, joiner.ID, group.ID)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	pending, err := env.groups.ListPendingMembers(ctx, creator.ID, group.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, joiner.ID, pending[0].UserID)
}

func TestGroupService_DeleteGroupAuthorization(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	creator := newUser(t, env.db, "dg")
	member := newUser(t, env.db, "dm")
	staff := newStaff(t, env.db, "ds")

	group, err := env.groups.CreateGroup(ctx, CreateGroupInput{CreatorID: creator.ID, Name: "Fleeting"})
	require.NoError(t, err)

	err = env.groups.DeleteGroup(ctx, member.ID, group.ID)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	require.NoError(t, env.groups.DeleteGroup(ctx, staff.ID, group.ID))

	_, err = env.groups.GetGroup(ctx, group.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestGroupService_GroupPostEditing(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	creator := newUser(t, env.db, "gpe")
	member := newUser(t, env.db, "gpf")
	outsider := newUser(t, env.db, "gpg")

	group, err := env.groups.CreateGroup(ctx, CreateGroupInput{CreatorID: creator.ID, Name: "Drafts"})
	require.NoError(t, err)
	_, err = env.groups.Join(ctx, member.ID, group.ID)
	require.NoError(t, err)
	require.NoError(t, env.groups.ApproveMember(ctx, creator.ID, member.ID, group.ID))

	post, err := env.groups.CreateGroupPost(ctx, member.ID, group.ID, "first draft", "")
	require.NoError(t, err)

	t.Run("author can edit a group post", func(t *testing.T) {
		updated, err := env.groups.UpdateGroupPost(ctx, member.ID, post.ID, "second draft")
		require.NoError(t, err)
		assert.Equal(t, "second draft", updated.Content)
	})

	t.Run("others cannot edit a group post", func(t *testing.T) {
		_, err := env.groups.UpdateGroupPost(ctx, creator.ID, post.ID, "hijacked")
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("approved member can fetch a single group post", func(t *testing.T) {
		got, err := env.groups.GetGroupPost(ctx, creator.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "second draft", got.Content)
	})

	t.Run("non member cannot fetch a group post", func(t *testing.T) {
		_, err := env.groups.GetGroupPost(ctx, outsider.ID, post.ID)
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})

	t.Run("author can edit a group comment, others cannot", func(t *testing.T) {
		comment, err := env.groups.CreateGroupComment(ctx, member.ID, post.ID, "typo here")
		require.NoError(t, err)

		updated, err := env.groups.UpdateGroupComment(ctx, member.ID, comment.ID, "typo fixed")
		require.NoError(t, err)
		assert.Equal(t, "typo fixed", updated.Content)

		_, err = env.groups.UpdateGroupComment(ctx, creator.ID, comment.ID, "not yours")
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})
}

func TestGroupService_GroupPostDeletion(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	creator := newUser(t, env.db, "gpd")
	member := newUser(t, env.db, "gpm")

	group, err := env.groups.CreateGroup(ctx, CreateGroupInput{CreatorID: creator.ID, Name: "Posts"})
	require.NoError(t, err)
	_, err = env.groups.Join(ctx, member.ID, group.ID)
	require.NoError(t, err)
	require.NoError(t, env.groups.ApproveMember(ctx, creator.ID, member.ID, group.ID))

	post, err := env.groups.CreateGroupPost(ctx, member.ID, group.ID, "content", "")
	require.NoError(t, err)

	other := newUser(t, env.db, "gpo")
	err = env.groups.DeleteGroupPost(ctx, other.ID, post.ID)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	// The group creator can remove a member's post.
	require.NoError(t, env.groups.DeleteGroupPost(ctx, creator.ID, post.ID))
}
