package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	ProfileKeyPrefix  = "profile:%d"
	PostKeyPrefix     = "post:%d"
	GroupKeyPrefix    = "group:%d"
	FriendsKeyPrefix  = "user:%d:friends"
	FeedKey           = "feed:global"
	SuggestionsPrefix = "user:%d:suggestions"
)

const (
	UserTTL        = 5 * time.Minute
	ProfileTTL     = 5 * time.Minute
	GroupTTL       = 10 * time.Minute
	PostTTL        = 30 * time.Minute
	FriendsTTL     = 2 * time.Minute
	FeedTTL        = 30 * time.Second
	SuggestionsTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(groupID uint) string {
	return fmt.Sprintf(GroupKeyPrefix, groupID)
}

func FriendsKey(userID uint) string {
	return fmt.Sprintf(FriendsKeyPrefix, userID)
}

func SuggestionsKey(userID uint) string {
	return fmt.Sprintf(SuggestionsPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateGroup(ctx context.Context, groupID uint) {
	Invalidate(ctx, GroupKey(groupID))
}

// InvalidateFriends drops the cached friend lists and suggestions for both
// sides of a relationship change.
func InvalidateFriends(ctx context.Context, userIDs ...uint) {
	for _, id := range userIDs {
		Invalidate(ctx, FriendsKey(id))
		Invalidate(ctx, SuggestionsKey(id))
	}
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}
