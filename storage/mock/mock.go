package mock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesfx/tasas/storage/types"
)

type (
	SaveOfficialRatesDelegate    func(context.Context, map[string]string, time.Time) ([]int64, error)
	SaveMarketAverageDelegate    func(context.Context, decimal.Decimal, time.Time) error
	LatestOfficialRatesDelegate  func(context.Context, time.Time) ([]*types.RateReading, error)
	LatestMarketAveragesDelegate func(context.Context, time.Time) ([]*types.RateReading, error)
)

type Storage struct {
	SaveOfficialRatesFn    SaveOfficialRatesDelegate
	SaveMarketAverageFn    SaveMarketAverageDelegate
	LatestOfficialRatesFn  LatestOfficialRatesDelegate
	LatestMarketAveragesFn LatestMarketAveragesDelegate
}

func (m *Storage) SaveOfficialRates(
	ctx context.Context,
	raw map[string]string,
	observedAt time.Time,
) ([]int64, error) {
	if m.SaveOfficialRatesFn != nil {
		return m.SaveOfficialRatesFn(ctx, raw, observedAt)
	}

	return nil, nil
}

func (m *Storage) SaveMarketAverage(
	ctx context.Context,
	avg decimal.Decimal,
	observedAt time.Time,
) error {
	if m.SaveMarketAverageFn != nil {
		return m.SaveMarketAverageFn(ctx, avg, observedAt)
	}

	return nil
}

func (m *Storage) LatestOfficialRates(
	ctx context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	if m.LatestOfficialRatesFn != nil {
		return m.LatestOfficialRatesFn(ctx, day)
	}

	return nil, nil
}

func (m *Storage) LatestMarketAverages(
	ctx context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	if m.LatestMarketAveragesFn != nil {
		return m.LatestMarketAveragesFn(ctx, day)
	}

	return nil, nil
}
