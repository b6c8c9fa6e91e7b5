package pipeline

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	fetchRatesDelegate   func(context.Context) (map[string]string, error)
	fetchAverageDelegate func(context.Context) (decimal.Decimal, error)
	runDelegate          func(context.Context) error
)

type mockOfficialSource struct {
	fetchRatesFn fetchRatesDelegate
}

func (m *mockOfficialSource) Name() string {
	return "mock-official"
}

func (m *mockOfficialSource) FetchRates(ctx context.Context) (map[string]string, error) {
	if m.fetchRatesFn != nil {
		return m.fetchRatesFn(ctx)
	}

	return nil, nil
}

type mockMarketSource struct {
	fetchAverageFn fetchAverageDelegate
}

func (m *mockMarketSource) Name() string {
	return "mock-market"
}

func (m *mockMarketSource) FetchAverage(ctx context.Context) (decimal.Decimal, error) {
	if m.fetchAverageFn != nil {
		return m.fetchAverageFn(ctx)
	}

	return decimal.Zero, nil
}

type mockJob struct {
	name  string
	runFn runDelegate
}

func (m *mockJob) Name() string {
	return m.name
}

func (m *mockJob) Run(ctx context.Context) error {
	if m.runFn != nil {
		return m.runFn(ctx)
	}

	return nil
}
