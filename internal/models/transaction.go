package models

// TransactionEvent is one transaction as delivered by the Helius enhanced
// webhook. The payload is decoded into this typed form once at the ingest
// boundary; everything downstream works on it and never re-parses raw JSON.
type TransactionEvent struct {
	Signature   string `json:"signature"`
	Timestamp   int64  `json:"timestamp,omitempty"` // unix seconds
	Fee         int64  `json:"fee,omitempty"`       // lamports
	FeePayer    string `json:"feePayer,omitempty"`
	Type        string `json:"type,omitempty"`   // provider-assigned tag, e.g. "SWAP"
	Source      string `json:"source,omitempty"` // originating program/DEX label
	Description string `json:"description,omitempty"`

	NativeTransfers []NativeTransfer `json:"nativeTransfers,omitempty"`
	TokenTransfers  []TokenTransfer  `json:"tokenTransfers,omitempty"`
	Swaps           []SwapDetail     `json:"swaps,omitempty"`
}

// NativeTransfer is a movement of SOL between two accounts.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"` // lamports
}

// TokenTransfer is a movement of an SPL token between two accounts.
// Symbol/Name/TokenStandard are provider-embedded hints and may be empty.
type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
	TokenStandard   string  `json:"tokenStandard,omitempty"`
	Symbol          string  `json:"symbol,omitempty"`
	Name            string  `json:"name,omitempty"`
}

// SwapDetail is an explicit swap record attached to a transaction.
// Reconstructed is set when the classifier synthesized the record from a
// pair of token transfers rather than receiving it from the provider.
type SwapDetail struct {
	InputMint       string  `json:"inputMint"`
	OutputMint      string  `json:"outputMint"`
	InputAmount     float64 `json:"inputAmount"`
	OutputAmount    float64 `json:"outputAmount"`
	FromUserAccount string  `json:"fromUserAccount,omitempty"`
	Source          string  `json:"source,omitempty"`
	Reconstructed   bool    `json:"-"`
}

// Addresses returns every account that appears on the transaction: the fee
// payer plus both sides of all native and token transfers. Used by the
// pipeline to match against tracked wallets.
func (t *TransactionEvent) Addresses() map[string]struct{} {
	out := make(map[string]struct{})
	add := func(a string) {
		if a != "" {
			out[a] = struct{}{}
		}
	}
	add(t.FeePayer)
	for _, nt := range t.NativeTransfers {
		add(nt.FromUserAccount)
		add(nt.ToUserAccount)
	}
	for _, tt := range t.TokenTransfers {
		add(tt.FromUserAccount)
		add(tt.ToUserAccount)
	}
	return out
}
