package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesfx/tasas/storage"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// OfficialSource yields raw official rate strings keyed by currency name
type OfficialSource interface {
	// Name returns the human-readable name of the source
	Name() string

	// FetchRates fetches the raw rate strings from the source
	FetchRates(ctx context.Context) (map[string]string, error)
}

// MarketSource yields a market-implied average rate
type MarketSource interface {
	// Name returns the human-readable name of the source
	Name() string

	// FetchAverage computes the market average from the source
	FetchAverage(ctx context.Context) (decimal.Decimal, error)
}

// Pipeline is one rate-collection run: official extraction, market
// aggregation, and persistence, in that fixed order
type Pipeline struct {
	official OfficialSource
	market   MarketSource
	storage  storage.Storage
	logger   *slog.Logger
}

// NewPipeline creates a new rate-collection pipeline
func NewPipeline(
	official OfficialSource,
	market MarketSource,
	storage storage.Storage,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		official: official,
		market:   market,
		storage:  storage,
		logger:   noopLogger,
	}

	// Apply the options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) Name() string {
	return "rate collection"
}

// Run executes a single collection run. Both readings of the run share
// one observation timestamp, so date-scoped queries see a consistent
// snapshot. A fetch failure on one source is logged and skipped without
// blocking the other; persistence failures are returned to the caller
func (p *Pipeline) Run(ctx context.Context) error {
	observedAt := time.Now().UTC()

	var errs []error

	// Official rates
	raw, err := p.official.FetchRates(ctx)
	if err != nil {
		p.logger.Error(
			"unable to fetch official rates",
			"source", p.official.Name(),
			"err", err,
		)
	} else {
		ids, err := p.storage.SaveOfficialRates(ctx, raw, observedAt)
		if err != nil {
			errs = append(errs, fmt.Errorf("unable to save official rates: %w", err))
		} else {
			p.logger.Info(
				"saved official rates",
				"source", p.official.Name(),
				"count", len(ids),
				"observed_at", observedAt.String(),
			)
		}
	}

	// Market average, in its own transaction
	avg, err := p.market.FetchAverage(ctx)
	if err != nil {
		p.logger.Error(
			"unable to fetch market average",
			"source", p.market.Name(),
			"err", err,
		)
	} else {
		if err := p.storage.SaveMarketAverage(ctx, avg, observedAt); err != nil {
			errs = append(errs, fmt.Errorf("unable to save market average: %w", err))
		} else {
			p.logger.Info(
				"saved market average",
				"source", p.market.Name(),
				"average", avg.String(),
				"observed_at", observedAt.String(),
			)
		}
	}

	return errors.Join(errs...)
}
