// Package binance derives a market-implied USDT/VES rate from the
// Binance P2P listing endpoint.
//
// The endpoint is queried once per trade direction (BUY, SELL) with an
// identical merchant-only filter. Listings flagged as "Promoted Ad" are
// discarded since sponsored prices do not reflect real market depth, and
// the arithmetic mean is taken over the merged remainder. A one-sided
// sample is not a valid mid-market estimate, so either request failing
// fails the whole aggregation.
package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultURL = "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search"

// promotedLabel marks sponsored listings in the Binance P2P response
const promotedLabel = "Promoted Ad"

var ErrNoListings = errors.New("no listings after filtering")

// TradeDirection is the Binance P2P trade side
type TradeDirection string

const (
	DirectionBUY  TradeDirection = "BUY"
	DirectionSELL TradeDirection = "SELL"
)

//nolint:tagliatelle // Binance API uses camel case
type searchRequest struct {
	Asset         string         `json:"asset"`
	Fiat          string         `json:"fiat"`
	TradeType     TradeDirection `json:"tradeType"`
	Page          int            `json:"page"`
	Rows          int            `json:"rows"`
	PublisherType string         `json:"publisherType"`
	Countries     []string       `json:"countries"`
	PayTypes      []string       `json:"payTypes"`
}

type searchResponse struct {
	Data []listing `json:"data"`
}

type listing struct {
	Adv struct {
		Price string `json:"price"`
	} `json:"adv"`
	PrivilegeDesc string `json:"privilegeDesc"`
}

// Aggregator computes the mean USDT/VES price across Binance P2P listings
type Aggregator struct {
	client *http.Client
	url    string
}

// NewAggregator creates a new Binance P2P aggregator
func NewAggregator(url string, timeout time.Duration) *Aggregator {
	return &Aggregator{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

func (a *Aggregator) Name() string {
	return "Binance P2P (USDT)"
}

// FetchAverage queries both trade directions and returns the arithmetic
// mean price of the merged, promoted-free listing set, rounded to 2
// decimal places. An empty merged set is an error, never NaN or zero
func (a *Aggregator) FetchAverage(ctx context.Context) (decimal.Decimal, error) {
	// Fetch both sides; partial data is worse than none
	buyListings, err := a.fetchListings(ctx, DirectionBUY)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to fetch BUY listings: %w", err)
	}

	sellListings, err := a.fetchListings(ctx, DirectionSELL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to fetch SELL listings: %w", err)
	}

	// BUY first, then SELL. Order is irrelevant to the mean,
	// but kept deterministic
	merged := append(buyListings, sellListings...)

	var (
		sum   decimal.Decimal
		count int64
	)

	for _, l := range merged {
		if l.PrivilegeDesc == promotedLabel {
			continue
		}

		price, err := decimal.NewFromString(l.Adv.Price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unable to parse listing price %q: %w", l.Adv.Price, err)
		}

		sum = sum.Add(price)
		count++
	}

	if count == 0 {
		return decimal.Zero, ErrNoListings
	}

	return sum.Div(decimal.NewFromInt(count)).Round(2), nil
}

// fetchListings queries the listing endpoint for a single trade direction
func (a *Aggregator) fetchListings(
	ctx context.Context,
	direction TradeDirection,
) ([]listing, error) {
	reqBody := searchRequest{
		Asset:         "USDT",
		Fiat:          "VES",
		TradeType:     direction,
		Page:          1,
		Rows:          20,
		PublisherType: "merchant",
		Countries:     []string{},
		PayTypes:      []string{},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute POST request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	var apiResp searchResponse
	if err = json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}

	return apiResp.Data, nil
}
