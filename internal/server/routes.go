package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// WebhookPath is the ingest endpoint Helius POSTs batches to. The
// webhook-setup tool registers this exact path with the provider.
const WebhookPath = "/v1/webhook/helius"

// RegisterRoutes configures all API routes, middleware, and error handlers.
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = NotFoundJSON()

	e.Use(SetJSONContentType)
	e.Use(SetNoCacheHeaders)

	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)

	// The ingest endpoint stays open: Helius pushes to it directly and
	// does not send our API key header.
	e.POST(WebhookPath, h.HeliusWebhook)

	// Wallet management, optionally behind an API key, with a modest
	// rate limit on mutations.
	wallets := v1.Group("/wallets")
	if cfg.APIKey != "" {
		wallets.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}
	wallets.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(2), // 2 requests per second
		Burst:     5,
		ExpiresIn: 2 * time.Minute,
	})))
	wallets.GET("", h.WalletsList)
	wallets.POST("", h.WalletsAdd)
	wallets.DELETE("/:address", h.WalletsRemove)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
