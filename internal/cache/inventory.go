package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PostKeyPrefix                = "post:%d"
	UnreadNotificationsKeyPrefix = "notifications:unread:%s"
	UniversitiesKey              = "catalog:universities"
)

const (
	PostTTL    = 30 * time.Minute
	UnreadTTL  = 2 * time.Minute
	CatalogTTL = time.Hour
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UnreadNotificationsKey(userID string) string {
	return fmt.Sprintf(UnreadNotificationsKeyPrefix, userID)
}

// Invalidate drops key and bumps its generation so that an Aside fill already
// in flight does not write the old value back.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	gen := generationKey(key)
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, gen)
		pipe.Expire(ctx, gen, generationTTL)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		logCacheError(ctx, "cache invalidation failed", key, err)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateUnread(ctx context.Context, userID string) {
	Invalidate(ctx, UnreadNotificationsKey(userID))
}
