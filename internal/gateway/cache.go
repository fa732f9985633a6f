package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/phrazzld/skillpath-api/internal/platform/logger"
	"github.com/phrazzld/skillpath-api/internal/redact"
)

// Cache stores serialized responses under a key for a caller-chosen TTL.
// Implementations must report a miss for an entry whose expiry has passed.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached returns the value stored under key when present. Otherwise it calls
// load and, on success, stores the JSON encoding of the result for ttl.
// A failed load writes nothing. Cache errors are logged and treated as a miss
// so an unhealthy backend only costs an extra upstream call.
//
// A nil cache or a non-positive ttl disables caching for the call.
func Cached[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	log := logger.FromContext(ctx).With("cache_key", key)

	if c != nil {
		raw, ok, err := c.Get(ctx, key)
		switch {
		case err != nil:
			log.WarnContext(ctx, "cache read failed, treating as miss", "error", redact.Error(err))
		case ok:
			var v T
			err := json.Unmarshal(raw, &v)
			if err == nil {
				log.DebugContext(ctx, "cache hit")
				return v, nil
			}
			log.WarnContext(ctx, "discarding undecodable cache entry", "error", err)
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if c == nil || ttl <= 0 {
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		log.WarnContext(ctx, "failed to encode response for cache", "error", err)
		return v, nil
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		log.WarnContext(ctx, "cache write failed", "error", redact.Error(err))
	}
	return v, nil
}
