package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cardstack/pkg/cache"
)

// RedisStore keeps decks as JSON strings in Redis. Failed commands are
// retried with backoff.
type RedisStore struct {
	client *redis.Client
	keyer  cache.Keyer
	retry  cache.RetryFunc
}

// NewRedisStore connects to Redis and verifies the connection. A nil keyer
// uses the default "deck:<id>" keys.
func NewRedisStore(ctx context.Context, opts *redis.Options, keyer cache.Keyer) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", cache.ErrUnavailable, opts.Addr, err)
	}
	return NewRedisStoreFromClient(client, keyer), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyer cache.Keyer) *RedisStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &RedisStore{client: client, keyer: keyer, retry: cache.RetryWithBackoff}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Deck, error) {
	var data []byte
	err := s.retry(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, s.keyer.DeckKey(id)).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return cache.Retryable(fmt.Errorf("get deck: %w", err))
		}
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisStore) Set(ctx context.Context, d *Deck) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	return s.retry(ctx, func() error {
		if err := s.client.Set(ctx, s.keyer.DeckKey(d.ID), data, 0).Err(); err != nil {
			return cache.Retryable(fmt.Errorf("set deck: %w", err))
		}
		return nil
	})
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.retry(ctx, func() error {
		if err := s.client.Del(ctx, s.keyer.DeckKey(id)).Err(); err != nil {
			return cache.Retryable(fmt.Errorf("delete deck: %w", err))
		}
		return nil
	})
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	// DeckKey("") yields the key prefix.
	prefix := s.keyer.DeckKey("")
	var ids []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan decks: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
