// Package pipeline drives one webhook batch end to end: match transactions
// against tracked wallets, classify, enrich, render and enqueue for
// delivery. Failures are isolated per transaction and per wallet; nothing
// below the batch boundary can fail the batch.
package pipeline

import (
	"context"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/classifier"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/discord"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/render"
	"github.com/sirupsen/logrus"
)

// TokenResolver resolves token display data and best-effort prices.
type TokenResolver interface {
	Resolve(ctx context.Context, mint string, hint *models.TokenTransfer) models.TokenInfo
	Price(ctx context.Context, mint string) float64
}

// MarketCapResolver resolves a market cap; ok=false renders as "Unknown".
type MarketCapResolver interface {
	Resolve(ctx context.Context, mint string) (float64, bool)
}

// Enqueuer hands a rendered message to the delivery queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg *discord.Message) error
}

// IngestResult is the coarse summary returned for one batch.
type IngestResult struct {
	Received int `json:"received"`
	Matched  int `json:"matched"` // (transaction, wallet) pairs
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
}

type Pipeline struct {
	tokens TokenResolver
	mcap   MarketCapResolver
	queue  Enqueuer
	logger *logrus.Logger
}

func New(tokens TokenResolver, mcap MarketCapResolver, queue Enqueuer, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{tokens: tokens, mcap: mcap, queue: queue, logger: logger}
}

// Ingest processes a batch sequentially, preserving payload order in the
// emitted notifications. Transactions matching no tracked wallet are
// skipped silently; per-item errors are logged and counted, never fatal.
func (p *Pipeline) Ingest(ctx context.Context, batch []models.TransactionEvent, wallets []models.WalletEntry) IngestResult {
	res := IngestResult{Received: len(batch)}

	byAddr := make(map[string]models.WalletEntry, len(wallets))
	for _, w := range wallets {
		byAddr[w.Address] = w
	}

	for i := range batch {
		p.processTransaction(ctx, &batch[i], wallets, byAddr, &res)
	}
	return res
}

func (p *Pipeline) processTransaction(ctx context.Context, tx *models.TransactionEvent, wallets []models.WalletEntry, byAddr map[string]models.WalletEntry, res *IngestResult) {
	defer func() {
		if r := recover(); r != nil {
			res.Failed++
			p.logger.WithFields(logrus.Fields{
				"signature": tx.Signature,
				"stage":     "transaction",
				"panic":     r,
			}).Error("transaction processing panicked")
		}
	}()

	addrs := tx.Addresses()
	// Iterate the tracked list, not the address set, for deterministic
	// wallet order within one transaction.
	for _, w := range wallets {
		if _, ok := addrs[w.Address]; !ok {
			continue
		}
		res.Matched++
		p.processWallet(ctx, tx, byAddr[w.Address], res)
	}
}

func (p *Pipeline) processWallet(ctx context.Context, tx *models.TransactionEvent, wallet models.WalletEntry, res *IngestResult) {
	log := p.logger.WithFields(logrus.Fields{
		"signature": tx.Signature,
		"wallet":    wallet.Address,
	})

	defer func() {
		if r := recover(); r != nil {
			res.Failed++
			log.WithFields(logrus.Fields{"stage": "wallet", "panic": r}).Error("wallet processing panicked")
		}
	}()

	class := classifier.Classify(tx, wallet.Address)
	if class.Kind == classifier.KindUnknown {
		log.Debug("transaction not classifiable, skipping")
		return
	}

	in := p.enrich(ctx, tx, wallet, class)

	msg := render.Render(in)
	if msg == nil {
		return
	}

	if err := p.queue.Enqueue(ctx, msg); err != nil {
		res.Failed++
		log.WithError(err).WithField("stage", "enqueue").Error("failed to enqueue notification")
		return
	}
	res.Notified++
	log.WithField("kind", string(class.Kind)).Info("notification enqueued")
}

// enrich resolves token data for exactly the mints the classification
// touches. Everything here is best-effort; missing data renders as
// "Unknown", never as an error.
func (p *Pipeline) enrich(ctx context.Context, tx *models.TransactionEvent, wallet models.WalletEntry, class classifier.Classification) render.Input {
	in := render.Input{Tx: tx, Wallet: wallet, Class: class}

	switch class.Kind {
	case classifier.KindSwap:
		s := class.Swap
		in.InputToken = p.tokens.Resolve(ctx, s.InputMint, hintFor(tx, s.InputMint))
		in.OutputToken = p.tokens.Resolve(ctx, s.OutputMint, hintFor(tx, s.OutputMint))
		// Price and market cap only matter for the traded (non-SOL) side;
		// token-for-token swaps use the lighter embed without either.
		switch {
		case s.InputMint == constants.WSOLMint:
			in.OutputToken.Price = p.tokens.Price(ctx, s.OutputMint)
			in.MarketCap, in.HasMarketCap = p.mcap.Resolve(ctx, s.OutputMint)
		case s.OutputMint == constants.WSOLMint:
			in.InputToken.Price = p.tokens.Price(ctx, s.InputMint)
			in.MarketCap, in.HasMarketCap = p.mcap.Resolve(ctx, s.InputMint)
		}

	case classifier.KindBuy, classifier.KindSell:
		in.Token = p.tokens.Resolve(ctx, class.Token.Mint, class.Token)
		in.Token.Price = p.tokens.Price(ctx, class.Token.Mint)
		in.MarketCap, in.HasMarketCap = p.mcap.Resolve(ctx, class.Token.Mint)

	case classifier.KindReceiveToken, classifier.KindSendToken:
		in.Token = p.tokens.Resolve(ctx, class.Token.Mint, class.Token)
		in.Token.Price = p.tokens.Price(ctx, class.Token.Mint)

	case classifier.KindReceiveSOL, classifier.KindSendSOL:
		in.SOLPrice = p.tokens.Price(ctx, constants.WSOLMint)

	case classifier.KindNFTTransfer:
		in.Token = p.tokens.Resolve(ctx, class.Token.Mint, class.Token)
	}
	return in
}

// hintFor finds a token transfer carrying provider-embedded metadata for a
// mint, usable as symbol/name defaults during resolution.
func hintFor(tx *models.TransactionEvent, mint string) *models.TokenTransfer {
	for i := range tx.TokenTransfers {
		if tx.TokenTransfers[i].Mint == mint {
			return &tx.TokenTransfers[i]
		}
	}
	return nil
}
