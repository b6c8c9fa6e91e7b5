// Package cache wraps a Storage with a Redis read-through cache for the
// date-scoped read operations. Writes pass through and invalidate the
// affected day so readers never see a stale snapshot for longer than
// one write cycle. Any Redis failure falls through to the underlying
// store; the cache is an optimization, never a source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/vesfx/tasas/storage"
	"github.com/vesfx/tasas/storage/types"
)

const defaultTTL = time.Minute * 5

// Storage is the caching decorator over a rate store
type Storage struct {
	next storage.Storage
	rdb  *redis.Client
	ttl  time.Duration
}

// NewStorage creates a caching store over next, pinging Redis first
func NewStorage(ctx context.Context, next storage.Storage, addr string) (*Storage, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to reach redis (ping): %w", err)
	}

	return &Storage{
		next: next,
		rdb:  rdb,
		ttl:  defaultTTL,
	}, nil
}

// Close releases the Redis client
func (s *Storage) Close() error {
	return s.rdb.Close()
}

func (s *Storage) SaveOfficialRates(
	ctx context.Context,
	raw map[string]string,
	observedAt time.Time,
) ([]int64, error) {
	ids, err := s.next.SaveOfficialRates(ctx, raw, observedAt)
	if err != nil {
		return nil, err
	}

	s.rdb.Del(ctx, officialKey(observedAt))

	return ids, nil
}

func (s *Storage) SaveMarketAverage(
	ctx context.Context,
	avg decimal.Decimal,
	observedAt time.Time,
) error {
	if err := s.next.SaveMarketAverage(ctx, avg, observedAt); err != nil {
		return err
	}

	s.rdb.Del(ctx, marketKey(observedAt))

	return nil
}

func (s *Storage) LatestOfficialRates(
	ctx context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	return s.readThrough(ctx, officialKey(day), func() ([]*types.RateReading, error) {
		return s.next.LatestOfficialRates(ctx, day)
	})
}

func (s *Storage) LatestMarketAverages(
	ctx context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	return s.readThrough(ctx, marketKey(day), func() ([]*types.RateReading, error) {
		return s.next.LatestMarketAverages(ctx, day)
	})
}

// readThrough serves the key from Redis when possible, falling back to
// (and re-priming from) the underlying store
func (s *Storage) readThrough(
	ctx context.Context,
	key string,
	fetch func() ([]*types.RateReading, error),
) ([]*types.RateReading, error) {
	if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var readings []*types.RateReading

		if err := json.Unmarshal(cached, &readings); err == nil {
			return readings, nil
		}

		// Corrupt entry, drop it and refetch
		s.rdb.Del(ctx, key)
	}

	readings, err := fetch()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(readings); err == nil {
		s.rdb.Set(ctx, key, encoded, s.ttl)
	}

	return readings, nil
}

func officialKey(day time.Time) string {
	return "tasas:oficial:" + day.Format("2006-01-02")
}

func marketKey(day time.Time) string {
	return "tasas:promedio:" + day.Format("2006-01-02")
}
