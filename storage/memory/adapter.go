package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesfx/tasas/numeric"
	"github.com/vesfx/tasas/storage/types"
)

// Storage is the in-memory rate store, used for tests and
// infrastructure-free serving. It mirrors the transactional semantics
// of the SQL adapter: an official batch is visible whole or not at all
type Storage struct {
	official []types.RateReading
	market   []types.RateReading
	nextID   int64

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) SaveOfficialRates(
	_ context.Context,
	raw map[string]string,
	observedAt time.Time,
) ([]int64, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}

	sort.Strings(names)

	// Normalize the full batch before anything becomes visible
	batch := make([]types.RateReading, 0, len(names))

	for _, name := range names {
		value, err := numeric.Normalize(raw[name])
		if err != nil {
			return nil, fmt.Errorf("unable to normalize rate for %s: %w", name, err)
		}

		batch = append(batch, types.RateReading{
			Name:       name,
			Value:      value,
			ObservedAt: observedAt.UTC(),
			Source:     types.SourceBCV,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(batch))

	for _, reading := range batch {
		s.nextID++
		ids = append(ids, s.nextID)

		s.official = append(s.official, reading)
	}

	return ids, nil
}

func (s *Storage) SaveMarketAverage(
	_ context.Context,
	avg decimal.Decimal,
	observedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++

	s.market = append(s.market, types.RateReading{
		Name:       types.MarketAverageName,
		Value:      avg,
		ObservedAt: observedAt.UTC(),
		Source:     types.SourceBinance,
	})

	return nil
}

func (s *Storage) LatestOfficialRates(
	_ context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return latestPerName(s.official, day), nil
}

func (s *Storage) LatestMarketAverages(
	_ context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return latestPerName(s.market, day), nil
}

// latestPerName picks the highest-timestamp reading per name observed
// on the given calendar day, ordered by name
func latestPerName(readings []types.RateReading, day time.Time) []*types.RateReading {
	latest := make(map[string]types.RateReading)

	for _, reading := range readings {
		if !sameDate(reading.ObservedAt, day) {
			continue
		}

		current, ok := latest[reading.Name]
		if !ok || reading.ObservedAt.After(current.ObservedAt) {
			latest[reading.Name] = reading
		}
	}

	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}

	sort.Strings(names)

	out := make([]*types.RateReading, 0, len(names))

	for _, name := range names {
		reading := latest[name]
		out = append(out, &reading)
	}

	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
