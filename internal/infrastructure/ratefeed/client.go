// Package ratefeed fetches exchange rates from an external feed.
package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"wallet-kita.backend/internal/usecases"
)

// Client talks to an exchangerate.host-style JSON API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a new rate feed client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchLatest fetches the current rates for the given base currency
func (c *Client) FetchLatest(ctx context.Context, base string) (*usecases.RateSnapshot, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid rate feed url: %w", err)
	}
	q := u.Query()
	q.Set("base", base)
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rate feed response: %w", err)
	}

	return &usecases.RateSnapshot{
		Base:      body.Base,
		Rates:     body.Rates,
		FetchedAt: time.Now(),
	}, nil
}
