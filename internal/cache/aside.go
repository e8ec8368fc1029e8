package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"nuvy/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: on hit, dest is populated from the
// cached JSON value; on miss, fetch runs (it must fill dest) and the result is
// stored under key with the given TTL. Cache failures degrade to the fetch path.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	keyClass := keyClass(key)

	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
				observability.CacheRequests.WithLabelValues(keyClass, "hit").Inc()
				return nil
			}
			// Corrupt entry: drop it and fall through to fetch.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("get").Inc()
		}
	}

	observability.CacheRequests.WithLabelValues(keyClass, "miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

// keyClass reduces "user:42" to "user" for metric labels.
func keyClass(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
