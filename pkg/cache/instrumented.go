package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/cardstack/pkg/observability"
)

// Instrumented reports hits, misses and writes of the wrapped cache to the
// registered observability cache hooks. The key type is the key's prefix
// up to the first colon ("snapshot", "artifact", "deck").
type Instrumented struct {
	Cache
}

// NewInstrumented wraps c.
func NewInstrumented(c Cache) Cache {
	return Instrumented{Cache: c}
}

// Get reports a hit or miss.
func (c Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

// Set reports the write size.
func (c Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func keyType(key string) string {
	// Scoped keys carry their scope first; the type is the last segment
	// before the hash.
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
