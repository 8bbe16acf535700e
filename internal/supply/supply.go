package supply

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client reads on-chain token supply. Used as the last market-cap fallback:
// circulating supply times resolved unit price.
type Client struct {
	rpc *rpc.Client
}

func NewClient(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

// TokenSupply returns the UI-adjusted total supply for a mint.
func (c *Client) TokenSupply(ctx context.Context, mint string) (float64, error) {
	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return 0, fmt.Errorf("invalid mint %q: %w", mint, err)
	}

	out, err := c.rpc.GetTokenSupply(ctx, pk, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("getTokenSupply: %w", err)
	}
	if out == nil || out.Value == nil || out.Value.UiAmount == nil {
		return 0, nil
	}
	return *out.Value.UiAmount, nil
}
