package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%s"
	postKeyPrefix  = "post:%s"
	postsListKey   = "posts:list"
	communityKey   = "users:community"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 10 * time.Minute
	PostsListTTL = 30 * time.Second
	CommunityTTL = time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func PostsListKey() string {
	return postsListKey
}

func CommunityKey() string {
	return communityKey
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, communityKey)
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, postsListKey)
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, postsListKey)
}
