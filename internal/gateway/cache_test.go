package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	value   []byte
	expires time.Time
}

// fakeCache is an in-memory Cache with a controllable clock.
type fakeCache struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]fakeEntry
	getErr  error
	setErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{now: time.Unix(1_700_000_000, 0), entries: make(map[string]fakeEntry)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now.After(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = fakeEntry{value: value, expires: c.now.Add(ttl)}
	return nil
}

type quote struct {
	Text string `json:"text"`
}

func TestCached_MissThenHit(t *testing.T) {
	cache := newFakeCache()
	loads := 0
	load := func(context.Context) (quote, error) {
		loads++
		return quote{Text: "keep going"}, nil
	}

	first, err := Cached(context.Background(), cache, "motivation_english", time.Hour, load)
	require.NoError(t, err)
	second, err := Cached(context.Background(), cache, "motivation_english", time.Hour, load)
	require.NoError(t, err)

	assert.Equal(t, quote{Text: "keep going"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads, "second call served from cache")
	assert.JSONEq(t, `{"text":"keep going"}`, string(cache.entries["motivation_english"].value))
}

func TestCached_ExpiredEntryIsMiss(t *testing.T) {
	cache := newFakeCache()
	cache.entries["quiz_logic"] = fakeEntry{
		value:   []byte(`{"text":"stale"}`),
		expires: cache.now.Add(-time.Millisecond),
	}

	got, err := Cached(context.Background(), cache, "quiz_logic", time.Hour, func(context.Context) (quote, error) {
		return quote{Text: "fresh"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Text)
	assert.JSONEq(t, `{"text":"fresh"}`, string(cache.entries["quiz_logic"].value), "entry overwritten on refresh")
}

func TestCached_FailedLoadWritesNothing(t *testing.T) {
	cache := newFakeCache()
	boom := &RetriesExhaustedError{Attempts: 5, Err: &RequestError{StatusCode: 429}}

	_, err := Cached(context.Background(), cache, "news_technology", time.Hour, func(context.Context) ([]string, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 0, cache.sets)
	assert.Empty(t, cache.entries)
}

func TestCached_CacheErrorsAreNotFatal(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("dial redis://:hunter22@cache:6379 refused")
	cache.setErr = errors.New("read-only replica")

	got, err := Cached(context.Background(), cache, "advice_backend_junior", time.Hour, func(context.Context) (string, error) {
		return "ship small", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ship small", got)
	assert.Equal(t, 1, cache.sets)
}

func TestCached_UndecodableEntryIsReloaded(t *testing.T) {
	cache := newFakeCache()
	cache.entries["roadmap_blog"] = fakeEntry{value: []byte("not json"), expires: cache.now.Add(time.Hour)}

	got, err := Cached(context.Background(), cache, "roadmap_blog", time.Hour, func(context.Context) (quote, error) {
		return quote{Text: "phase 1"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "phase 1", got.Text)
}

func TestCached_NilCacheAndZeroTTL(t *testing.T) {
	loads := 0
	load := func(context.Context) (int, error) {
		loads++
		return loads, nil
	}

	v, err := Cached(context.Background(), nil, "k", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	cache := newFakeCache()
	_, err = Cached(context.Background(), cache, "k", 0, load)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.sets)
}

func TestCached_HitBypassesExecutor(t *testing.T) {
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), "motivation_hindi", []byte(`"cached quote"`), time.Hour))

	e, _ := newTestExecutor(t)
	calls := 0
	got, err := Cached(context.Background(), cache, "motivation_hindi", time.Hour, func(ctx context.Context) (string, error) {
		return Execute(ctx, e, func(context.Context) (string, error) {
			calls++
			return "fresh quote", nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, "cached quote", got)
	assert.Equal(t, 0, calls)
}
