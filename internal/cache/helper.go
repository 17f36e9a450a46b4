package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"studyoverflow/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON when the key is absent or the cache is disabled.
var ErrCacheMiss = errors.New("cache miss")

// errStaleFill aborts a fill whose key was invalidated while the value was being fetched.
var errStaleFill = errors.New("cache key invalidated during fill")

// generationTTL outlives any fetch window; Invalidate refreshes it.
const generationTTL = time.Hour

func generationKey(key string) string {
	return key + ":gen"
}

// GetJSON loads key into dest.
func GetJSON(ctx context.Context, key string, dest any) error {
	if client == nil {
		return ErrCacheMiss
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON stores value under key with ttl. It is a no-op without a client.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// generation returns the invalidation counter of key ("" when never invalidated).
func generation(ctx context.Context, c stringGetter, key string) (string, error) {
	gen, err := c.Get(ctx, generationKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return gen, err
}

// setIfGeneration stores value only if key has not been invalidated since gen
// was read. A skipped write is not an error.
func setIfGeneration(ctx context.Context, key, gen string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, ttl)
			return nil
		})
		return err
	}, generationKey(key))

	if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
		observability.GlobalLogger.DebugContext(ctx, "cache fill skipped after invalidation",
			slog.String("key", key))
		return nil
	}
	return err
}

// Aside reads key into dest, falling back to fetch on a miss and populating
// the cache with the fetched value. The fill is dropped when the key is
// invalidated between the fetch and the write. Cache failures never fail the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	err := GetJSON(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logCacheError(ctx, "cache read failed", key, err)
	}

	var (
		gen    string
		genErr error
	)
	if client != nil {
		gen, genErr = generation(ctx, client, key)
		if genErr != nil {
			logCacheError(ctx, "cache generation read failed", key, genErr)
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if genErr == nil {
		if err := setIfGeneration(ctx, key, gen, dest, ttl); err != nil {
			logCacheError(ctx, "cache write failed", key, err)
		}
	}
	return nil
}

func logCacheError(ctx context.Context, msg, key string, err error) {
	observability.GlobalLogger.WarnContext(ctx, msg,
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
