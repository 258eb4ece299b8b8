package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix        = "user:%d"
	connectionsKeyPrefix = "user:%d:connections"
)

const (
	// UserTTL bounds how stale a cached profile summary may be.
	UserTTL = 5 * time.Minute
	// ConnectionsTTL bounds how stale a cached connection list may be.
	ConnectionsTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func ConnectionsKey(userID uint) string {
	return fmt.Sprintf(connectionsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ConnectionsKey(userID))
}
