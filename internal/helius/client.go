package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Helius v0 REST API: token metadata lookups plus
// webhook management (create, inspect, add/remove tracked addresses).
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.helius.xyz/v0"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 8 * time.Second,
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
		return fmt.Sprintf("helius http %d", e.StatusCode)
	}
	return fmt.Sprintf("helius http %d: %s", e.StatusCode, b)
}

func (c *Client) url(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return c.BaseURL + path + sep + "api-key=" + c.APIKey
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode, Body: raw}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode helius response: %w", err)
	}
	return nil
}

// TokenMetadata returns canonical name/symbol for a mint. A miss is not an
// error: callers treat an empty result as "keep whatever default you have".
func (c *Client) TokenMetadata(ctx context.Context, mint string) (*TokenMetadata, error) {
	if strings.TrimSpace(mint) == "" {
		return nil, fmt.Errorf("mint is required")
	}

	var out []tokenMetadataResponse
	req := tokenMetadataRequest{MintAccounts: []string{mint}}
	if err := c.do(ctx, http.MethodPost, "/token-metadata", req, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	md := &TokenMetadata{Mint: out[0].Account}
	if oc := out[0].OnChainMetadata; oc != nil && oc.Metadata != nil {
		md.Name = oc.Metadata.Data.Name
		md.Symbol = oc.Metadata.Data.Symbol
	}
	if off := out[0].OffChainMetadata; off != nil && off.Metadata != nil {
		if md.Name == "" {
			md.Name = off.Metadata.Name
		}
		if md.Symbol == "" {
			md.Symbol = off.Metadata.Symbol
		}
	}
	md.Name = strings.TrimRight(md.Name, "\x00")
	md.Symbol = strings.TrimRight(md.Symbol, "\x00")
	return md, nil
}

// GetWebhook fetches the current webhook configuration.
func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*Webhook, error) {
	if webhookID == "" {
		return nil, fmt.Errorf("webhook id is required")
	}
	var out Webhook
	if err := c.do(ctx, http.MethodGet, "/webhooks/"+webhookID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWebhook registers a new enhanced webhook and returns its ID.
func (c *Client) CreateWebhook(ctx context.Context, webhookURL string, addresses []string) (*Webhook, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	if addresses == nil {
		addresses = []string{}
	}
	req := Webhook{
		WebhookURL:       webhookURL,
		TransactionTypes: []string{"SWAP", "TOKEN_TRANSFER", "TRANSFER", "NFT_MINT"},
		AccountAddresses: addresses,
		WebhookType:      "enhanced",
	}
	var out Webhook
	if err := c.do(ctx, http.MethodPost, "/webhooks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddAddress adds a wallet to the webhook's tracked address list.
// Idempotent: re-adding an address that is already tracked is a no-op.
func (c *Client) AddAddress(ctx context.Context, webhookID, address string) error {
	wh, err := c.GetWebhook(ctx, webhookID)
	if err != nil {
		return err
	}
	for _, a := range wh.AccountAddresses {
		if a == address {
			return nil
		}
	}
	wh.AccountAddresses = append(wh.AccountAddresses, address)
	return c.updateWebhook(ctx, webhookID, wh)
}

// RemoveAddress removes a wallet from the webhook's tracked address list.
func (c *Client) RemoveAddress(ctx context.Context, webhookID, address string) error {
	wh, err := c.GetWebhook(ctx, webhookID)
	if err != nil {
		return err
	}
	kept := wh.AccountAddresses[:0]
	for _, a := range wh.AccountAddresses {
		if a != address {
			kept = append(kept, a)
		}
	}
	wh.AccountAddresses = kept
	return c.updateWebhook(ctx, webhookID, wh)
}

// updateWebhook PUTs the full configuration back; Helius replaces every
// field, so the update must carry all original properties, not a patch.
func (c *Client) updateWebhook(ctx context.Context, webhookID string, wh *Webhook) error {
	req := Webhook{
		WebhookURL:       wh.WebhookURL,
		TransactionTypes: wh.TransactionTypes,
		AccountAddresses: wh.AccountAddresses,
		WebhookType:      wh.WebhookType,
		TxnStatus:        wh.TxnStatus,
	}
	return c.do(ctx, http.MethodPut, "/webhooks/"+webhookID, req, nil)
}
