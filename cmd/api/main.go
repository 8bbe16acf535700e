package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/birdeye"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/cache"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/config"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/dexscreener"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/discord"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/helius"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/marketcap"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/pipeline"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/server"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/supply"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/tokeninfo"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/walletstore"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// env bootstrap: load .env from the project root before anything reads
// os.Getenv.
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if !discord.IsValidWebhookURL(cfg.DiscordWebhookURL) {
		logger.Fatal("DISCORD_WEBHOOK_URL is not a valid Discord webhook URL")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Redis backs the tracked-wallet store and the price/market-cap caches.
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	cacheStore, err := cache.NewStore(rclient, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create cache store")
	}

	wallets, err := walletstore.NewStore(rclient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create wallet store")
	}

	// Provider clients. All best-effort downstream: resolver fallbacks
	// turn their failures into zero/unknown values.
	var heliusClient *helius.Client
	if cfg.HeliusAPIKey != "" {
		heliusClient = helius.NewClient(cfg.HeliusBaseURL, cfg.HeliusAPIKey)
	} else {
		logger.Warn("HELIUS_API_KEY not set, token metadata and webhook sync disabled")
	}
	birdeyeClient := birdeye.NewClient(cfg.BirdeyeBaseURL, cfg.BirdeyeAPIKey)
	dexClient := dexscreener.NewClient(cfg.DexScreenerBaseURL)
	supplyClient := supply.NewClient(cfg.RPCUrl)

	var metadata tokeninfo.MetadataProvider
	if heliusClient != nil {
		metadata = heliusClient
	}
	tokens := tokeninfo.NewResolver(tokeninfo.Config{
		Metadata: metadata,
		Prices:   birdeyeClient,
		Cache:    cacheStore,
		PriceTTL: cfg.PriceTTL,
		Timeout:  cfg.HTTPTimeout,
		Logger:   logger,
	})
	mcap := marketcap.NewResolver(marketcap.Config{
		Overview:     birdeyeClient,
		Pairs:        dexClient,
		Supply:       supplyClient,
		Price:        tokens.Price,
		Cache:        cacheStore,
		MarketCapTTL: cfg.MarketCapTTL,
		Timeout:      cfg.HTTPTimeout,
		Logger:       logger,
	})

	// Single global delivery queue: ~1s spacing, in-order, 429-aware.
	queue := discord.NewQueue(
		discord.NewClient(cfg.DiscordWebhookURL),
		logger,
		constants.DiscordMinMessageSpacing,
		constants.DiscordQueueDepth,
	)
	queue.Start(ctx)

	pipe := pipeline.New(tokens, mcap, queue, logger)

	h := &server.Handlers{
		Wallets:   wallets,
		Pipeline:  pipe,
		Helius:    heliusClient,
		WebhookID: cfg.HeliusWebhookID,
		DevMode:   cfg.DevMode,
		Logger:    logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("wallet tracker api starting")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("api server failed")
	}

	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
