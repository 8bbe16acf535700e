package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var webhookURLRe = regexp.MustCompile(`^https://discord\.com/api/webhooks/\d+/[\w\-]+$`)

// IsValidWebhookURL reports whether url looks like a Discord webhook URL.
func IsValidWebhookURL(url string) bool {
	return webhookURLRe.MatchString(url)
}

// Client posts messages to a single Discord webhook.
type Client struct {
	WebhookURL string
	HTTP       *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		WebhookURL: strings.TrimSpace(webhookURL),
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// HTTPError is a non-2xx response from Discord.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("discord http %d", e.StatusCode)
	}
	return fmt.Sprintf("discord http %d: %s", e.StatusCode, b)
}

// RateLimitError is a 429 from Discord carrying the wait the provider asked
// for before the next attempt.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("discord rate limited, retry after %s", e.RetryAfter)
}

// Send posts one message. A 429 comes back as *RateLimitError so the queue
// can back off and retry; any other non-2xx is an *HTTPError.
func (c *Client) Send(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: retryAfter(res, raw)}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode, Body: raw}
	}
	return nil
}

// retryAfter extracts the provider-stated wait from a 429: the Retry-After
// header (seconds), else the retry_after JSON field, else 5s.
func retryAfter(res *http.Response, body []byte) time.Duration {
	if h := res.Header.Get("Retry-After"); h != "" {
		if secs, err := strconv.ParseFloat(h, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	var out struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &out); err == nil && out.RetryAfter > 0 {
		return time.Duration(out.RetryAfter * float64(time.Second))
	}
	return 5 * time.Second
}
