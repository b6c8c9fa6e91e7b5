package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesfx/tasas/storage/mock"

	"github.com/vesfx/tasas/storage/types"
)

func TestHandlers_Tasas(t *testing.T) {
	t.Parallel()

	t.Run("invalid fecha", func(t *testing.T) {
		t.Parallel()

		var called bool

		storage := &mock.Storage{
			LatestOfficialRatesFn: func(
				_ context.Context,
				_ time.Time,
			) ([]*types.RateReading, error) {
				called = true

				return nil, nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/tasas?fecha=31-08-2026", http.NoBody)

		w := httptest.NewRecorder()
		s.Tasas(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
	})

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			LatestOfficialRatesFn: func(
				_ context.Context,
				_ time.Time,
			) ([]*types.RateReading, error) {
				return nil, errors.New("boom")
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/tasas", http.NoBody)

		w := httptest.NewRecorder()
		s.Tasas(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		// The internal error is not leaked
		var resp ErrorResponse

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, errUnableToFetchRates.Error(), resp.Error)
	})

	t.Run("explicit fecha", func(t *testing.T) {
		t.Parallel()

		var capturedDay time.Time

		expectedDay := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

		storage := &mock.Storage{
			LatestOfficialRatesFn: func(
				_ context.Context,
				day time.Time,
			) ([]*types.RateReading, error) {
				capturedDay = day

				return []*types.RateReading{
					{
						Name:       "DOLAR",
						Value:      decimal.RequireFromString("102.16"),
						ObservedAt: expectedDay.Add(time.Hour * 12),
						Source:     types.SourceBCV,
					},
				}, nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/tasas?fecha=2026-08-31", http.NoBody)

		w := httptest.NewRecorder()
		s.Tasas(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, expectedDay, capturedDay)

		var resp []Tasa

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp, 1)

		assert.Equal(t, "DOLAR", resp[0].Nombre)
		assert.Equal(t, "102.16", resp[0].Valor.String())
		assert.Equal(t, "BCV", resp[0].Fuente)
	})

	t.Run("missing fecha defaults to today", func(t *testing.T) {
		t.Parallel()

		var capturedDay time.Time

		storage := &mock.Storage{
			LatestOfficialRatesFn: func(
				_ context.Context,
				day time.Time,
			) ([]*types.RateReading, error) {
				capturedDay = day

				return nil, nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/tasas", http.NoBody)

		w := httptest.NewRecorder()
		s.Tasas(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		now := time.Now()
		assert.Equal(t, now.Year(), capturedDay.Year())
		assert.Equal(t, now.YearDay(), capturedDay.YearDay())

		// No readings yields an empty array, not null
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestHandlers_BinancePromedio(t *testing.T) {
	t.Parallel()

	t.Run("invalid fecha", func(t *testing.T) {
		t.Parallel()

		s := &Server{
			storage: &mock.Storage{},
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/binance-promedio?fecha=bad", http.NoBody)

		w := httptest.NewRecorder()
		s.BinancePromedio(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage error", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			LatestMarketAveragesFn: func(
				_ context.Context,
				_ time.Time,
			) ([]*types.RateReading, error) {
				return nil, errors.New("boom")
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/binance-promedio", http.NoBody)

		w := httptest.NewRecorder()
		s.BinancePromedio(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		observedAt := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

		storage := &mock.Storage{
			LatestMarketAveragesFn: func(
				_ context.Context,
				_ time.Time,
			) ([]*types.RateReading, error) {
				return []*types.RateReading{
					{
						Name:       types.MarketAverageName,
						Value:      decimal.RequireFromString("105.43"),
						ObservedAt: observedAt,
						Source:     types.SourceBinance,
					},
				}, nil
			},
		}

		s := &Server{
			storage: storage,
			logger:  noopLogger,
		}

		req := httptest.NewRequest(http.MethodGet, "/binance-promedio?fecha=2026-08-31", http.NoBody)

		w := httptest.NewRecorder()
		s.BinancePromedio(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []Promedio

		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp, 1)

		assert.Equal(t, types.MarketAverageName, resp[0].Nombre)
		assert.Equal(t, "105.43", resp[0].Promedio.String())
		assert.Equal(t, "BINANCE", resp[0].Fuente)
	})
}
