package marketcap

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/cache"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/sirupsen/logrus"
)

// OverviewProvider is the primary market-data source (Birdeye overview).
type OverviewProvider interface {
	MarketCap(ctx context.Context, mint string) (float64, error)
}

// PairProvider is the secondary aggregator (DexScreener pair FDV).
type PairProvider interface {
	FDV(ctx context.Context, mint string) (float64, error)
}

// SupplyProvider reads on-chain circulating supply.
type SupplyProvider interface {
	TokenSupply(ctx context.Context, mint string) (float64, error)
}

// PriceFunc resolves a best-effort unit price (tokeninfo.Resolver.Price).
type PriceFunc func(ctx context.Context, mint string) float64

// Resolver resolves market capitalization through a fallback chain:
// provider overview, then highest-liquidity pair FDV, then computed
// supply × price. Every stage is independently fallible; when all fail the
// result is (0, false) and callers render "Unknown".
type Resolver struct {
	overview OverviewProvider
	pairs    PairProvider
	supply   SupplyProvider
	price    PriceFunc
	cache    *cache.Store
	mcapTTL  time.Duration
	fdvTTL   time.Duration
	timeout  time.Duration
	logger   *logrus.Logger
}

type Config struct {
	Overview     OverviewProvider
	Pairs        PairProvider
	Supply       SupplyProvider
	Price        PriceFunc
	Cache        *cache.Store
	MarketCapTTL time.Duration // 0 means constants.MarketCapCacheTTL
	FDVTTL       time.Duration // 0 means constants.FDVCacheTTL
	Timeout      time.Duration // per provider call, 0 means 5s
	Logger       *logrus.Logger
}

func NewResolver(cfg Config) *Resolver {
	if cfg.MarketCapTTL <= 0 {
		cfg.MarketCapTTL = constants.MarketCapCacheTTL
	}
	if cfg.FDVTTL <= 0 {
		cfg.FDVTTL = constants.FDVCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Resolver{
		overview: cfg.Overview,
		pairs:    cfg.Pairs,
		supply:   cfg.Supply,
		price:    cfg.Price,
		cache:    cfg.Cache,
		mcapTTL:  cfg.MarketCapTTL,
		fdvTTL:   cfg.FDVTTL,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
}

// Resolve returns the market cap for a mint and whether any stage produced
// a value. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, mint string) (float64, bool) {
	log := r.logger.WithField("mint", mint)

	if v, ok := r.fromOverview(ctx, mint, log); ok {
		return v, true
	}
	if v, ok := r.fromPairs(ctx, mint, log); ok {
		return v, true
	}
	if v, ok := r.fromSupply(ctx, mint, log); ok {
		return v, true
	}
	return 0, false
}

func (r *Resolver) fromOverview(ctx context.Context, mint string, log *logrus.Entry) (float64, bool) {
	if r.overview == nil {
		return 0, false
	}
	key := constants.RedisKeyMarketCapPrefix + mint
	if r.cache != nil {
		if v, fresh, _ := r.cache.Lookup(ctx, key, r.mcapTTL); fresh && v > 0 {
			return v, true
		}
	}

	octx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	v, err := r.overview.MarketCap(octx, mint)
	if err != nil {
		log.WithError(err).Debug("market cap overview failed")
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	if r.cache != nil {
		r.cache.Put(ctx, key, v)
	}
	return v, true
}

func (r *Resolver) fromPairs(ctx context.Context, mint string, log *logrus.Entry) (float64, bool) {
	if r.pairs == nil {
		return 0, false
	}
	key := constants.RedisKeyFDVPrefix + mint
	if r.cache != nil {
		if v, fresh, _ := r.cache.Lookup(ctx, key, r.fdvTTL); fresh && v > 0 {
			return v, true
		}
	}

	pctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	v, err := r.pairs.FDV(pctx, mint)
	if err != nil {
		log.WithError(err).Debug("pair fdv lookup failed")
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	if r.cache != nil {
		r.cache.Put(ctx, key, v)
	}
	return v, true
}

func (r *Resolver) fromSupply(ctx context.Context, mint string, log *logrus.Entry) (float64, bool) {
	if r.supply == nil || r.price == nil {
		return 0, false
	}

	sctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sup, err := r.supply.TokenSupply(sctx, mint)
	if err != nil {
		log.WithError(err).Debug("token supply lookup failed")
		return 0, false
	}
	price := r.price(ctx, mint)
	if sup <= 0 || price <= 0 {
		return 0, false
	}
	return sup * price, true
}
