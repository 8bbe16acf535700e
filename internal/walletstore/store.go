// Package walletstore keeps the tracked-wallet list in redis, keyed by
// address. The ingest pipeline reads a snapshot of this list per batch.
package walletstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
	"github.com/mr-tron/base58"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound       = errors.New("wallet not found")
	ErrInvalidAddress = errors.New("invalid wallet address")
)

type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &Store{client: client}, nil
}

// ValidateAddress checks that addr is a base58-encoded 32-byte public key.
func ValidateAddress(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return ErrInvalidAddress
	}
	return nil
}

// Add stores a wallet. Idempotent on duplicate address: the existing entry
// is returned unchanged.
func (s *Store) Add(ctx context.Context, entry models.WalletEntry) (*models.WalletEntry, error) {
	if err := ValidateAddress(entry.Address); err != nil {
		return nil, err
	}

	if existing, err := s.Get(ctx, entry.Address); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	entry.CreatedAt = time.Now().UTC()
	b, err := json.Marshal(&entry)
	if err != nil {
		return nil, fmt.Errorf("marshal wallet: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, walletKey(entry.Address), b, 0)
	pipe.SAdd(ctx, constants.RedisKeyWalletIndex, entry.Address)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("add wallet: %w", err)
	}
	return &entry, nil
}

// Get returns one tracked wallet by address.
func (s *Store) Get(ctx context.Context, address string) (*models.WalletEntry, error) {
	val, err := s.client.Get(ctx, walletKey(address)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	var w models.WalletEntry
	if err := json.Unmarshal([]byte(val), &w); err != nil {
		return nil, fmt.Errorf("unmarshal wallet: %w", err)
	}
	return &w, nil
}

// List returns every tracked wallet, ordered by address for stable output.
func (s *Store) List(ctx context.Context) ([]models.WalletEntry, error) {
	addrs, err := s.client.SMembers(ctx, constants.RedisKeyWalletIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list wallet index: %w", err)
	}
	if len(addrs) == 0 {
		return []models.WalletEntry{}, nil
	}

	keys := make([]string, 0, len(addrs))
	for _, a := range addrs {
		keys = append(keys, walletKey(a))
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget wallets: %w", err)
	}

	out := make([]models.WalletEntry, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var w models.WalletEntry
		if err := json.Unmarshal([]byte(str), &w); err != nil {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

// Remove deletes a wallet and returns the remaining list. Removing an
// address that was never tracked is not an error.
func (s *Store) Remove(ctx context.Context, address string) ([]models.WalletEntry, error) {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, walletKey(address))
	pipe.SRem(ctx, constants.RedisKeyWalletIndex, address)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("remove wallet: %w", err)
	}
	return s.List(ctx)
}

func walletKey(address string) string {
	return constants.RedisKeyWalletPrefix + address
}
