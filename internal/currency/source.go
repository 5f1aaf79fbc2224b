package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
)

// ExchangeRateClient fetches conversion rates from an exchangerate.host
// compatible API. The base URL is overridable for tests.
type ExchangeRateClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewExchangeRateClient creates a client against the given API base URL.
func NewExchangeRateClient(httpClient *http.Client, baseURL string) *ExchangeRateClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ExchangeRateClient{httpClient: httpClient, baseURL: baseURL}
}

// convertResponse mirrors the /convert payload shape.
type convertResponse struct {
	Info struct {
		Rate *float64 `json:"rate"`
	} `json:"info"`
}

// Rate implements RateSource. Any transport failure, unexpected status,
// undecodable body, or missing/non-finite rate is an error; the converter
// maps all of them to parity.
func (c *ExchangeRateClient) Rate(ctx context.Context, base, target string) (float64, error) {
	u := fmt.Sprintf("%s/convert?from=%s&to=%s",
		c.baseURL, url.QueryEscape(base), url.QueryEscape(target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request %s->%s: %w", base, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate request %s->%s: unexpected status %d", base, target, resp.StatusCode)
	}

	var payload convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding rate response %s->%s: %w", base, target, err)
	}

	if payload.Info.Rate == nil {
		return 0, fmt.Errorf("no rate in response for %s->%s", base, target)
	}
	rate := *payload.Info.Rate
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("invalid rate %f for %s->%s", rate, base, target)
	}

	return rate, nil
}
