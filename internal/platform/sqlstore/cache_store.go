package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CacheStore implements the gateway cache contract on the response_cache table.
type CacheStore struct {
	db  *sql.DB
	now func() time.Time
}

// CacheStoreOption configures a CacheStore.
type CacheStoreOption func(*CacheStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CacheStoreOption {
	return func(s *CacheStore) {
		s.now = now
	}
}

// NewCacheStore creates a CacheStore using db, which must already carry the
// migrated schema.
func NewCacheStore(db *sql.DB, opts ...CacheStoreOption) *CacheStore {
	s := &CacheStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the payload stored under key. An expired row is deleted and
// reported as a miss.
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		payload   string
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM response_cache WHERE cache_key = $1`,
		key,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, MapError(err))
	}

	if s.now().UnixMilli() > expiresAt {
		// Match on expires_at so a concurrent refresh is not thrown away.
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM response_cache WHERE cache_key = $1 AND expires_at = $2`,
			key, expiresAt,
		); err != nil {
			return nil, false, fmt.Errorf("cache evict %q: %w", key, MapError(err))
		}
		return nil, false, nil
	}

	return []byte(payload), true, nil
}

// Set upserts value under key, expiring ttl from now.
func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_cache (cache_key, payload, expires_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE
		SET payload = excluded.payload,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		key, string(value), now.Add(ttl).UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("cache set %q: %w", key, MapError(err))
	}
	return nil
}

// PurgeExpired deletes every expired row and returns how many were removed.
func (s *CacheStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE expires_at < $1`,
		s.now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", MapError(err))
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}

// Ping reports whether the database is reachable.
func (s *CacheStore) Ping(ctx context.Context) error {
	return MapError(s.db.PingContext(ctx))
}
