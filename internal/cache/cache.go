package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store is a redis-backed read-through cache for numeric provider data
// (prices, market caps). Entries carry their own write timestamp instead of
// a redis TTL so that stale values survive past expiry and can still be
// served when the upstream provider is down.
type Store struct {
	client redis.Cmdable
	logger *logrus.Logger
	now    func() time.Time
}

type entry struct {
	Value     float64   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewStore(client redis.Cmdable, logger *logrus.Logger) (*Store, error) {
	return NewStoreWithClock(client, logger, time.Now)
}

// NewStoreWithClock injects the clock used for freshness checks.
func NewStoreWithClock(client redis.Cmdable, logger *logrus.Logger, now func() time.Time) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if now == nil {
		now = time.Now
	}
	return &Store{client: client, logger: logger, now: now}, nil
}

// Lookup returns the cached value for key. fresh reports whether the entry
// is younger than ttl; found reports whether any entry exists at all.
// Redis errors degrade to a miss: the caller re-fetches, nothing fails.
func (s *Store) Lookup(ctx context.Context, key string, ttl time.Duration) (value float64, fresh, found bool) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, false
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache lookup failed")
		return 0, false, false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache entry corrupt")
		return 0, false, false
	}
	return e.Value, s.now().Sub(e.UpdatedAt) < ttl, true
}

// Put stores value under key with the current timestamp. Writes are atomic
// per key; a racing writer only costs a redundant upstream fetch.
func (s *Store) Put(ctx context.Context, key string, value float64) {
	e := entry{Value: value, UpdatedAt: s.now().UTC()}
	b, err := json.Marshal(e)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}
	if err := s.client.Set(ctx, key, b, 0).Err(); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache put failed")
	}
}
