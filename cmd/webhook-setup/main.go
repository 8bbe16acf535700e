// Command webhook-setup creates or syncs the Helius webhook that feeds the
// tracker. Run it once after deployment, or again whenever PUBLIC_URL
// changes; the api binary keeps addresses in sync from then on.
package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/config"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/helius"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/server"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/walletstore"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	create := flag.Bool("create", false, "create a new webhook instead of syncing an existing one")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_, filename, _, _ := runtime.Caller(0)
	envPath := filepath.Join(filepath.Dir(filename), "../..", ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	}

	cfg := config.Load()
	if cfg.HeliusAPIKey == "" {
		logger.Fatal("HELIUS_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	wallets, err := walletstore.NewStore(rclient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create wallet store")
	}
	tracked, err := wallets.List(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to list tracked wallets")
	}
	addrs := make([]string, 0, len(tracked))
	for _, w := range tracked {
		addrs = append(addrs, w.Address)
	}

	client := helius.NewClient(cfg.HeliusBaseURL, cfg.HeliusAPIKey)

	if *create {
		if cfg.PublicURL == "" {
			logger.Fatal("PUBLIC_URL is required to create a webhook")
		}
		webhookURL := cfg.PublicURL + server.WebhookPath
		wh, err := client.CreateWebhook(ctx, webhookURL, addrs)
		if err != nil {
			logger.WithError(err).Fatal("failed to create webhook")
		}
		logger.WithFields(logrus.Fields{
			"webhook_id": wh.WebhookID,
			"url":        wh.WebhookURL,
			"addresses":  len(wh.AccountAddresses),
		}).Info("webhook created")
		fmt.Printf("\nSet HELIUS_WEBHOOK_ID=%s in your environment.\n", wh.WebhookID)
		return
	}

	if cfg.HeliusWebhookID == "" {
		logger.Fatal("HELIUS_WEBHOOK_ID is required to sync (or pass -create)")
	}
	wh, err := client.GetWebhook(ctx, cfg.HeliusWebhookID)
	if err != nil {
		logger.WithError(err).Fatal("failed to fetch webhook")
	}

	synced := 0
	for _, a := range addrs {
		if err := client.AddAddress(ctx, wh.WebhookID, a); err != nil {
			logger.WithError(err).WithField("address", a).Error("failed to add address")
			continue
		}
		synced++
	}
	logger.WithFields(logrus.Fields{
		"webhook_id": wh.WebhookID,
		"tracked":    len(addrs),
		"synced":     synced,
	}).Info("webhook sync complete")
}
