package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidWebhookURL(t *testing.T) {
	assert.True(t, IsValidWebhookURL("https://discord.com/api/webhooks/123456789/abcDEF-ghi_JKL"))
	assert.False(t, IsValidWebhookURL("https://example.com/api/webhooks/123/abc"))
	assert.False(t, IsValidWebhookURL("http://discord.com/api/webhooks/123/abc"))
	assert.False(t, IsValidWebhookURL(""))
}

func TestSend_Success(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), &Message{Content: "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "hello", received.Content)
}

func TestSend_RateLimitFromHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2.5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), &Message{Content: "x"})

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 2500*time.Millisecond, rl.RetryAfter)
}

func TestSend_RateLimitFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"You are being rate limited.","retry_after":1.25}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), &Message{Content: "x"})

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 1250*time.Millisecond, rl.RetryAfter)
}

func TestSend_RateLimitDefaultWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), &Message{Content: "x"})

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 5*time.Second, rl.RetryAfter)
}

func TestSend_OtherErrorIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unknown Webhook"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), &Message{Content: "x"})

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)

	var rl *RateLimitError
	assert.False(t, errors.As(err, &rl))
}
