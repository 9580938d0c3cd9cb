package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	SpotKeyPrefix     = "spot:%d"
	SpotListKeyPrefix = "spots:%s"
	CategoriesKey     = "categories"
	UserKeyPrefix     = "user:%d"
	UserListKey       = "users"
)

const (
	SpotTTL       = 5 * time.Minute
	SpotListTTL   = 5 * time.Minute
	CategoriesTTL = 60 * time.Minute
	UserTTL       = 10 * time.Minute
	UserListTTL   = 10 * time.Minute
)

func SpotKey(spotID uint) string {
	return fmt.Sprintf(SpotKeyPrefix, spotID)
}

// SpotListKey builds the key for a filtered spot listing. The fingerprint is
// the normalized query string, or "all" when no filters are set.
func SpotListKey(fingerprint string) string {
	if fingerprint == "" {
		fingerprint = "all"
	}
	return fmt.Sprintf(SpotListKeyPrefix, fingerprint)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateSpot(ctx context.Context, spotID uint) {
	Invalidate(ctx, SpotKey(spotID))
}

// InvalidateSpotLists drops every cached spot listing. Listing keys depend on
// the request's filter fingerprint, so a write to any spot invalidates them all.
func InvalidateSpotLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, fmt.Sprintf(SpotListKeyPrefix, "*"), 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserListKey)
}
