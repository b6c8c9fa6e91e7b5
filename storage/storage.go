package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesfx/tasas/storage/types"
)

// Storage is an abstraction over collected rate data.
//
// The day parameters of the read operations are explicit on purpose:
// "default to today" is an API-boundary decision, never a storage one
type Storage interface {
	// SaveOfficialRates normalizes and stores the given raw official
	// rate strings as one atomic batch sharing the observedAt timestamp.
	// Any single normalization or insert failure rolls back the whole
	// batch; a partial official snapshot is worse than none.
	// Returns the inserted record IDs
	SaveOfficialRates(ctx context.Context, raw map[string]string, observedAt time.Time) ([]int64, error)

	// SaveMarketAverage stores the computed market average in its own
	// transaction, independent of the official batch
	SaveMarketAverage(ctx context.Context, avg decimal.Decimal, observedAt time.Time) error

	// LatestOfficialRates returns the most recent official reading per
	// currency name observed on the given calendar day, ordered by name
	LatestOfficialRates(ctx context.Context, day time.Time) ([]*types.RateReading, error)

	// LatestMarketAverages returns the most recent market average
	// reading per name observed on the given calendar day
	LatestMarketAverages(ctx context.Context, day time.Time) ([]*types.RateReading, error)
}
