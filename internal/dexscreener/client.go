package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the DexScreener public API. No API key required.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.dexscreener.com"
	}
	return &Client{
		BaseURL: baseURL,
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
		return fmt.Sprintf("dexscreener http %d", e.StatusCode)
	}
	return fmt.Sprintf("dexscreener http %d: %s", e.StatusCode, b)
}

type tokensResponse struct {
	Pairs []Pair `json:"pairs"`
}

// Pair is one trading pair as reported by DexScreener. FDV is the fully
// diluted valuation, the market-cap proxy this client selects on.
type Pair struct {
	DexID     string     `json:"dexId,omitempty"`
	FDV       float64    `json:"fdv,omitempty"`
	Liquidity *Liquidity `json:"liquidity,omitempty"`
}

type Liquidity struct {
	USD float64 `json:"usd,omitempty"`
}

// FDV returns the fully-diluted valuation of the highest-liquidity pair for
// a mint, or (0, nil) when DexScreener lists no usable pair.
func (c *Client) FDV(ctx context.Context, mint string) (float64, error) {
	if strings.TrimSpace(mint) == "" {
		return 0, fmt.Errorf("mint is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/latest/dex/tokens/"+mint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return 0, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out tokensResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("failed to decode dexscreener response: %w", err)
	}

	var best *Pair
	for i := range out.Pairs {
		p := &out.Pairs[i]
		if best == nil || p.liquidityUSD() > best.liquidityUSD() {
			best = p
		}
	}
	if best == nil || best.FDV <= 0 {
		return 0, nil
	}
	return best.FDV, nil
}

func (p *Pair) liquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}
