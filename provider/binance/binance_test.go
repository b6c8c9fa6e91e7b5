package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testListing struct {
	price     string
	privilege string
}

// newListingServer serves canned listings per trade direction
func newListingServer(t *testing.T, listings map[TradeDirection][]testListing) *httptest.Server {
	t.Helper()

	return httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req searchRequest

			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			// The filter payload is fixed
			assert.Equal(t, "USDT", req.Asset)
			assert.Equal(t, "VES", req.Fiat)
			assert.Equal(t, 20, req.Rows)
			assert.Equal(t, 1, req.Page)
			assert.Equal(t, "merchant", req.PublisherType)

			resp := searchResponse{}

			for _, l := range listings[req.TradeType] {
				var item listing

				item.Adv.Price = l.price
				item.PrivilegeDesc = l.privilege

				resp.Data = append(resp.Data, item)
			}

			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}),
	)
}

func TestAggregator_FetchAverage(t *testing.T) {
	t.Parallel()

	t.Run("promoted listings excluded from mean", func(t *testing.T) {
		t.Parallel()

		srv := newListingServer(t, map[TradeDirection][]testListing{
			DirectionBUY: {
				{price: "100"},
				{price: "200", privilege: "Promoted Ad"},
			},
			DirectionSELL: {
				{price: "110"},
			},
		})
		defer srv.Close()

		avg, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())
		require.NoError(t, err)

		// (100 + 110) / 2, the promoted 200 is dropped
		assert.Equal(t, "105", avg.String())
	})

	t.Run("mean rounded to 2 decimals", func(t *testing.T) {
		t.Parallel()

		srv := newListingServer(t, map[TradeDirection][]testListing{
			DirectionBUY: {
				{price: "100.10"},
				{price: "100.15"},
			},
			DirectionSELL: {
				{price: "100.16"},
			},
		})
		defer srv.Close()

		avg, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())
		require.NoError(t, err)

		// (100.10 + 100.15 + 100.16) / 3 = 100.136...
		assert.Equal(t, "100.14", avg.String())
	})

	t.Run("all listings promoted", func(t *testing.T) {
		t.Parallel()

		srv := newListingServer(t, map[TradeDirection][]testListing{
			DirectionBUY: {
				{price: "100", privilege: "Promoted Ad"},
			},
			DirectionSELL: {
				{price: "110", privilege: "Promoted Ad"},
			},
		})
		defer srv.Close()

		_, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())

		assert.ErrorIs(t, err, ErrNoListings)
	})

	t.Run("both sides empty", func(t *testing.T) {
		t.Parallel()

		srv := newListingServer(t, map[TradeDirection][]testListing{})
		defer srv.Close()

		_, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())

		assert.ErrorIs(t, err, ErrNoListings)
	})

	t.Run("one side fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req searchRequest

				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

				if req.TradeType == DirectionSELL {
					w.WriteHeader(http.StatusBadGateway)

					return
				}

				resp := searchResponse{}
				resp.Data = append(resp.Data, listing{})
				resp.Data[0].Adv.Price = "100"

				require.NoError(t, json.NewEncoder(w).Encode(resp))
			}),
		)
		defer srv.Close()

		// No averaging over the surviving BUY side
		_, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoListings)
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())

		assert.Error(t, err)
	})

	t.Run("unparseable price", func(t *testing.T) {
		t.Parallel()

		srv := newListingServer(t, map[TradeDirection][]testListing{
			DirectionBUY: {
				{price: "not-a-price"},
			},
		})
		defer srv.Close()

		_, err := NewAggregator(srv.URL, time.Second*5).FetchAverage(context.Background())

		assert.Error(t, err)
	})
}
