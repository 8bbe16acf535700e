package tokeninfo

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/cache"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/helius"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// MetadataProvider resolves canonical name/symbol for a mint. Best-effort:
// a nil result with nil error means the provider has nothing for the mint.
type MetadataProvider interface {
	TokenMetadata(ctx context.Context, mint string) (*helius.TokenMetadata, error)
}

// PriceProvider returns the USD unit price for a mint.
type PriceProvider interface {
	Price(ctx context.Context, mint string) (float64, error)
}

// Resolver turns a mint address into display metadata and a best-effort
// price. Resolution order: fixed known-token table, transfer-embedded hint
// fields, metadata provider; a truncated mint is the final placeholder.
// No method of Resolver ever returns an error to the caller.
type Resolver struct {
	metadata MetadataProvider
	prices   PriceProvider
	cache    *cache.Store
	priceTTL time.Duration
	timeout  time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

type Config struct {
	Metadata MetadataProvider
	Prices   PriceProvider
	Cache    *cache.Store
	PriceTTL time.Duration // 0 means constants.PriceCacheTTL
	Timeout  time.Duration // per provider call, 0 means 5s
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewResolver(cfg Config) *Resolver {
	if cfg.PriceTTL <= 0 {
		cfg.PriceTTL = constants.PriceCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Resolver{
		metadata: cfg.Metadata,
		prices:   cfg.Prices,
		cache:    cfg.Cache,
		priceTTL: cfg.PriceTTL,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
}

// Resolve returns display metadata for a mint. hint, when non-nil, supplies
// the symbol/name fields embedded in the originating token transfer.
func (r *Resolver) Resolve(ctx context.Context, mint string, hint *models.TokenTransfer) models.TokenInfo {
	info := models.TokenInfo{LastUpdated: r.now()}

	if known, ok := constants.KnownTokens[mint]; ok {
		info.Symbol = known.Symbol
		info.Name = known.Name
		return info
	}

	info.Symbol = shortMint(mint)
	info.Name = shortMint(mint)
	if hint != nil {
		if hint.Symbol != "" {
			info.Symbol = hint.Symbol
		}
		if hint.Name != "" {
			info.Name = hint.Name
		}
	}

	// Hint fields win over the provider: they came with the transaction.
	if r.metadata != nil && (hint == nil || hint.Symbol == "" || hint.Name == "") {
		mctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		md, err := r.metadata.TokenMetadata(mctx, mint)
		if err != nil {
			r.logger.WithError(err).WithField("mint", mint).Debug("token metadata lookup failed")
		} else if md != nil {
			if (hint == nil || hint.Symbol == "") && md.Symbol != "" {
				info.Symbol = md.Symbol
			}
			if (hint == nil || hint.Name == "") && md.Name != "" {
				info.Name = md.Name
			}
		}
	}
	return info
}

// Price returns the USD unit price for a mint through a read-through cache.
// Provider failure serves a stale cache entry when one exists, else 0.
func (r *Resolver) Price(ctx context.Context, mint string) float64 {
	key := constants.RedisKeyPricePrefix + mint

	var cached float64
	var stale bool
	if r.cache != nil {
		v, fresh, found := r.cache.Lookup(ctx, key, r.priceTTL)
		if fresh {
			return v
		}
		cached, stale = v, found
	}

	if r.prices == nil {
		return staleOrZero(cached, stale)
	}

	pctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	price, err := r.prices.Price(pctx, mint)
	if err != nil {
		r.logger.WithError(err).WithField("mint", mint).Warn("price lookup failed")
		return staleOrZero(cached, stale)
	}
	if r.cache != nil {
		r.cache.Put(ctx, key, price)
	}
	return price
}

func staleOrZero(v float64, ok bool) float64 {
	if ok {
		return v
	}
	return 0
}

func shortMint(mint string) string {
	if len(mint) <= 8 {
		return mint
	}
	return mint[:4] + "…" + mint[len(mint)-4:]
}
