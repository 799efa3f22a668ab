package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPFetcher reads the rate from a JSON document shaped like
// {"rates": {"KHR": 4100.5}} quoted against USD.
type HTTPFetcher struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher creates a fetcher for url. Every request is bounded by timeout.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPFetcher{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type rateDocument struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRate performs one GET against the configured source.
func (f *HTTPFetcher) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate source returned %s", resp.Status)
	}

	var doc rateDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate document: %w", err)
	}

	rate, ok := doc.Rates["KHR"]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate document has no KHR rate")
	}
	return rate, nil
}
