package bcv

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vesfx/tasas/numeric"
)

const (
	DefaultURL = "https://www.bcv.org.ve/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"
)

// Currency ties a BCV page section ID to the canonical
// upper-case name the reading is persisted under
type Currency struct {
	Key  string // HTML element ID on the BCV page
	Code string // canonical reading name
}

// DefaultCurrencies returns the currencies published on the BCV homepage
func DefaultCurrencies() []Currency {
	return []Currency{
		{Key: "dolar", Code: "DOLAR"},
		{Key: "euro", Code: "EURO"},
		{Key: "yuan", Code: "YUAN"},
		{Key: "lira", Code: "LIRA"},
		{Key: "rublo", Code: "RUBLO"},
	}
}

// Extractor scrapes official exchange rates from the BCV website
type Extractor struct {
	client     *http.Client
	url        string
	currencies []Currency
}

// NewExtractor creates a new BCV website extractor.
// The currency list is data, not logic: adding a currency
// means extending the slice, not touching extraction code
func NewExtractor(url string, currencies []Currency, timeout time.Duration) *Extractor {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // See package doc
	}

	return &Extractor{
		client: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		url:        url,
		currencies: currencies,
	}
}

func (e *Extractor) Name() string {
	return "BCV"
}

// FetchRates scrapes the BCV page and returns the raw rate string for
// every configured currency, keyed by canonical code. A currency whose
// element is missing maps to the numeric.Unavailable sentinel instead of
// failing the extraction; a network error or non-2xx response fails it
func (e *Extractor) FetchRates(ctx context.Context) (map[string]string, error) {
	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	req.Header.Set("Referer", DefaultURL)

	// Execute the request
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	// Construct document for parsing
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to construct query doc: %w", err)
	}

	rates := make(map[string]string, len(e.currencies))

	for _, currency := range e.currencies {
		raw := strings.TrimSpace(
			doc.Find("#" + currency.Key).Find("strong").First().Text(),
		)

		if raw == "" {
			raw = numeric.Unavailable
		}

		rates[currency.Code] = raw
	}

	return rates, nil
}
