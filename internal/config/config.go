package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// API server
	APIAddr string
	APIKey  string
	DevMode bool

	// Redis settings
	RedisAddr string
	RedisDB   int

	// Helius
	HeliusBaseURL   string
	HeliusAPIKey    string
	HeliusWebhookID string
	// Public URL this service is reachable at; used when registering the
	// Helius webhook (webhook-setup) so Helius knows where to POST.
	PublicURL string

	// Birdeye
	BirdeyeBaseURL string
	BirdeyeAPIKey  string

	// DexScreener
	DexScreenerBaseURL string

	// Solana RPC (token supply lookups)
	RPCUrl string

	// Discord
	DiscordWebhookURL string

	// HTTP client settings
	HTTPTimeout time.Duration

	// Cache TTLs (0 keeps package defaults)
	PriceTTL     time.Duration
	MarketCapTTL time.Duration
}

func Load() *Config {
	return &Config{
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getIntEnv("REDIS_DB", 0),

		HeliusBaseURL:   getEnv("HELIUS_BASE_URL", "https://api.helius.xyz/v0"),
		HeliusAPIKey:    getEnv("HELIUS_API_KEY", ""),
		HeliusWebhookID: getEnv("HELIUS_WEBHOOK_ID", ""),
		PublicURL:       getEnv("PUBLIC_URL", ""),

		BirdeyeBaseURL: getEnv("BIRDEYE_BASE_URL", "https://public-api.birdeye.so"),
		BirdeyeAPIKey:  getEnv("BIRDEYE_API_KEY", ""),

		DexScreenerBaseURL: getEnv("DEXSCREENER_BASE_URL", "https://api.dexscreener.com"),

		RPCUrl: getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),

		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),

		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", 5*time.Second),

		PriceTTL:     getDurationEnv("PRICE_CACHE_TTL", 0),
		MarketCapTTL: getDurationEnv("MARKETCAP_CACHE_TTL", 0),
	}
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR is required")
	}
	if c.DiscordWebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required")
	}
	if !strings.HasPrefix(c.DiscordWebhookURL, "https://discord.com/api/webhooks/") {
		return fmt.Errorf("DISCORD_WEBHOOK_URL must be a discord.com webhook URL")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
