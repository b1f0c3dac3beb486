package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cardstack/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "artifact:x"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "artifact:x", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "artifact:x")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "artifact:x"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "artifact:x"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "artifact:x"); err != nil {
		t.Errorf("Delete of a missing key error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	// Corrupt entries are misses too.
	c.Set(ctx, "bad", []byte("v"), 0)
	os.WriteFile(c.path("bad"), []byte("{not json"), 0644)
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v, want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should remove entries")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, err := HashJSON(map[string]int{"a": 1})
	if err != nil || len(j1) != 64 {
		t.Errorf("HashJSON() = %q, %v", j1, err)
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should fail on unencodable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	sk1 := k.SnapshotKey(SnapshotKeyOpts{Count: 10, Width: 320, Height: 480})
	sk2 := k.SnapshotKey(SnapshotKeyOpts{Count: 10, Width: 320, Height: 480, Exposed: 2})
	if sk1 == sk2 {
		t.Error("Different SnapshotKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(sk1, "snapshot:") {
		t.Errorf("SnapshotKey unexpected: %s", sk1)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	if dk := k.DeckKey("abc"); dk != "deck:abc" {
		t.Errorf("DeckKey unexpected: %s", dk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "preview:1:")

	if key := scoped.DeckKey("abc"); key != "preview:1:deck:abc" {
		t.Errorf("ScopedKeyer DeckKey unexpected: %s", key)
	}

	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(key, "preview:1:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.DeckKey("x"); key != "prefix:deck:x" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets map[string]int
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, kt string)        { h.hits[kt]++ }
func (h *countingCacheHooks) OnCacheMiss(_ context.Context, kt string)       { h.misses[kt]++ }
func (h *countingCacheHooks) OnCacheSet(_ context.Context, kt string, _ int) { h.sets[kt]++ }

func TestInstrumented(t *testing.T) {
	hooks := &countingCacheHooks{hits: map[string]int{}, misses: map[string]int{}, sets: map[string]int{}}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := NewInstrumented(fc)
	key := NewScopedKeyer(nil, "scope:").ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})

	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"), 0)
	c.Get(ctx, key)

	if hooks.misses["artifact"] != 1 || hooks.sets["artifact"] != 1 || hooks.hits["artifact"] != 1 {
		t.Errorf("hooks = hits %v misses %v sets %v", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	orig := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = orig }()

	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("first try: err=%v calls=%d", err, calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, &redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("NewRedisCache should fail without a server")
	}
	if !strings.Contains(err.Error(), ErrUnavailable.Error()) {
		t.Errorf("error = %v, want %v", err, ErrUnavailable)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("CARDSTACK_TEST_REDIS")
	if addr == "" {
		t.Skip("CARDSTACK_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, &redis.Options{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := "cardstack-test:" + t.Name()
	defer c.Delete(ctx, key)
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
}

// flakyRedis answers GET, SET and DEL from memory after failing the first
// failures commands, without a server.
type flakyRedis struct {
	failures int
	calls    int
	values   map[string]string
}

func newFlakyClient(t *testing.T, failures int) (*redis.Client, *flakyRedis) {
	t.Helper()
	fr := &flakyRedis{failures: failures, values: map[string]string{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(fr)
	t.Cleanup(func() { client.Close() })
	return client, fr
}

func (f *flakyRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *flakyRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *flakyRedis) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		f.calls++
		if f.calls <= f.failures {
			return errors.New("connection reset by peer")
		}
		args := cmd.Args()
		key := fmt.Sprint(args[1])
		switch cmd.Name() {
		case "get":
			v, ok := f.values[key]
			if !ok {
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(v)
		case "set":
			switch v := args[2].(type) {
			case []byte:
				f.values[key] = string(v)
			default:
				f.values[key] = fmt.Sprint(v)
			}
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "del":
			delete(f.values, key)
			cmd.(*redis.IntCmd).SetVal(1)
		}
		return nil
	}
}

func TestRedisCacheRetries(t *testing.T) {
	orig := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = orig }()
	ctx := context.Background()

	client, fr := newFlakyClient(t, 1)
	c := NewRedisCacheFromClient(client)

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() after one failure error = %v", err)
	}
	if fr.calls != 2 {
		t.Errorf("Set() issued %d commands, want 2", fr.calls)
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}

	// A miss is an answer, not a failure.
	fr.calls = 0
	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit || fr.calls != 1 {
		t.Errorf("Get(missing) = %v, %v after %d commands", hit, err, fr.calls)
	}
}

func TestRedisCacheGivesUp(t *testing.T) {
	orig := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = orig }()

	client, fr := newFlakyClient(t, 10)
	c := NewRedisCacheFromClient(client)
	_, _, err := c.Get(context.Background(), "k")
	if !IsRetryable(err) {
		t.Errorf("Get() error = %v, want a retryable error", err)
	}
	if fr.calls != 3 {
		t.Errorf("Get() issued %d commands, want 3", fr.calls)
	}
}
