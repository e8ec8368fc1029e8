package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	FeedFirstPageKey  = "feed:first"
	TokenBlacklistKey = "blacklist:%s"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
	FeedTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func blacklistKey(jti string) string {
	return fmt.Sprintf(TokenBlacklistKey, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPageKey)
}

// BlacklistToken marks a token's jti as revoked until the token's natural expiry.
// A no-op without Redis: logout then simply relies on token expiry.
func BlacklistToken(ctx context.Context, jti string, until time.Duration) {
	if client == nil || jti == "" || until <= 0 {
		return
	}
	client.Set(ctx, blacklistKey(jti), "1", until)
}

// IsTokenBlacklisted reports whether the jti has been revoked.
func IsTokenBlacklisted(ctx context.Context, jti string) bool {
	if client == nil || jti == "" {
		return false
	}
	n, err := client.Exists(ctx, blacklistKey(jti)).Result()
	return err == nil && n > 0
}
