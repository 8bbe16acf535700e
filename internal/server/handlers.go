package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/helius"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/pipeline"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/walletstore"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handlers contains all dependencies for API endpoint handlers.
type Handlers struct {
	Wallets   *walletstore.Store
	Pipeline  *pipeline.Pipeline
	Helius    *helius.Client // optional: syncs the Helius webhook address list
	WebhookID string
	DevMode   bool
	Logger    *logrus.Logger
}

// err returns a standardized JSON error response. In dev mode it includes
// additional details for debugging.
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// HeliusWebhook ingests one enhanced-webhook batch. The body must be a
// JSON array of transaction events; anything else is rejected before any
// transaction is touched. Per-item failures never fail the batch.
func (h *Handlers) HeliusWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "failed to read body", nil)
	}

	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "[") {
		return h.err(c, http.StatusBadRequest, "payload must be a JSON array", nil)
	}

	var batch []models.TransactionEvent
	if err := json.Unmarshal(body, &batch); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid payload", map[string]any{"err": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	wallets, err := h.Wallets.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to load tracked wallets", nil)
	}

	res := h.Pipeline.Ingest(ctx, batch, wallets)
	return c.JSON(http.StatusOK, IngestResponse{Success: true, IngestResult: res})
}

// WalletsList returns all tracked wallets.
func (h *Handlers) WalletsList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Wallets.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list wallets", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"wallets": items})
}

// WalletsAdd tracks a new wallet. The body is either a bare address string
// or an {address, nickname} object; duplicate addresses are a no-op.
func (h *Handlers) WalletsAdd(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "failed to read body", nil)
	}

	entry, err := decodeWalletBody(body)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if entry.Address == "" {
		return h.err(c, http.StatusBadRequest, "address is required", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	added, err := h.Wallets.Add(ctx, entry)
	if err != nil {
		if errors.Is(err, walletstore.ErrInvalidAddress) {
			return h.err(c, http.StatusBadRequest, "invalid wallet address", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to add wallet", nil)
	}

	h.syncHeliusAdd(entry.Address)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wallet": added})
}

// WalletsRemove stops tracking a wallet and returns the remaining list.
func (h *Handlers) WalletsRemove(c echo.Context) error {
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		return h.err(c, http.StatusBadRequest, "address is required", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	remaining, err := h.Wallets.Remove(ctx, address)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to remove wallet", nil)
	}

	h.syncHeliusRemove(address)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "wallets": remaining})
}

// decodeWalletBody accepts both historical body shapes: a bare address
// string and an {address, nickname} object.
func decodeWalletBody(body []byte) (models.WalletEntry, error) {
	var addr string
	if err := json.Unmarshal(body, &addr); err == nil {
		return models.WalletEntry{Address: strings.TrimSpace(addr)}, nil
	}
	var entry models.WalletEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return models.WalletEntry{}, err
	}
	entry.Address = strings.TrimSpace(entry.Address)
	return entry, nil
}

// syncHeliusAdd mirrors a newly tracked wallet into the Helius webhook
// address list. Best-effort: the store is the source of truth and a sync
// failure only logs.
func (h *Handlers) syncHeliusAdd(address string) {
	if h.Helius == nil || h.WebhookID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.Helius.AddAddress(ctx, h.WebhookID, address); err != nil {
		h.Logger.WithError(err).WithField("address", address).Warn("failed to add address to helius webhook")
	}
}

func (h *Handlers) syncHeliusRemove(address string) {
	if h.Helius == nil || h.WebhookID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.Helius.RemoveAddress(ctx, h.WebhookID, address); err != nil {
		h.Logger.WithError(err).WithField("address", address).Warn("failed to remove address from helius webhook")
	}
}
