package models

import "time"

// WalletEntry is a tracked wallet. Address is the identity key and never
// changes; Nickname is an optional display label.
type WalletEntry struct {
	Address   string    `json:"address"`
	Nickname  string    `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// TokenInfo is the resolved display data for a token mint. Price and
// MarketCap are best-effort: zero/nil means unknown, never an error.
type TokenInfo struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"` // USD unit price
	MarketCap   *float64  `json:"market_cap,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}
