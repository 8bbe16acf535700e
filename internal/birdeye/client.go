package birdeye

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Birdeye public API for token prices and market caps.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://public-api.birdeye.so"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("birdeye http %d", e.StatusCode)
	}
	return fmt.Sprintf("birdeye http %d: %s", e.StatusCode, b)
}

type priceResponse struct {
	Data *struct {
		Value float64 `json:"value"`
	} `json:"data,omitempty"`
	Success bool `json:"success"`
}

type overviewResponse struct {
	Data *struct {
		MarketCap float64 `json:"marketCap"`
	} `json:"data,omitempty"`
	Success bool `json:"success"`
}

func (c *Client) get(ctx context.Context, path, address string, out any) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("address is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("birdeye api key is not configured")
	}

	q := url.Values{}
	q.Set("address", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("x-chain", "solana")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode birdeye response: %w", err)
	}
	return nil
}

// Price returns the USD unit price for a mint. A token Birdeye does not
// know about comes back as (0, nil).
func (c *Client) Price(ctx context.Context, mint string) (float64, error) {
	var out priceResponse
	if err := c.get(ctx, "/defi/price", mint, &out); err != nil {
		return 0, err
	}
	if out.Data == nil {
		return 0, nil
	}
	return out.Data.Value, nil
}

// MarketCap returns the market capitalization from the token_overview
// endpoint, or (0, nil) when Birdeye has no figure for the mint.
func (c *Client) MarketCap(ctx context.Context, mint string) (float64, error) {
	var out overviewResponse
	if err := c.get(ctx, "/defi/token_overview", mint, &out); err != nil {
		return 0, err
	}
	if out.Data == nil {
		return 0, nil
	}
	return out.Data.MarketCap, nil
}
