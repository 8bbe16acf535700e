// Package classifier derives the semantic activity of a transaction as seen
// from one tracked wallet. Classification is a pure function of the
// (transaction, wallet) pair: no I/O, no state, identical inputs yield
// identical output.
package classifier

import (
	"strings"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
)

type Kind string

const (
	KindSwap         Kind = "SWAP"
	KindBuy          Kind = "BUY"
	KindSell         Kind = "SELL"
	KindReceiveToken Kind = "RECEIVE_TOKEN"
	KindSendToken    Kind = "SEND_TOKEN"
	KindReceiveSOL   Kind = "RECEIVE_SOL"
	KindSendSOL      Kind = "SEND_SOL"
	KindNFTMint      Kind = "NFT_MINT"
	KindNFTTransfer  Kind = "NFT_TRANSFER"
	KindUnknown      Kind = "UNKNOWN"
)

// Classification is the derived activity for one (transaction, wallet)
// pair. The detail pointers are populated per kind: Swap for SWAP, Token
// for the token-denominated kinds, Native for SOL transfers and for the
// paired SOL leg of a BUY/SELL.
type Classification struct {
	Kind      Kind
	Swap      *models.SwapDetail
	Token     *models.TokenTransfer
	Native    *models.NativeTransfer
	Receiving bool
}

// Classify determines what a transaction means for wallet. Decision order,
// first match wins: explicit or synthesizable swap, pure SOL transfer,
// token transfer (NFT / paired-SOL trade / plain), NFT mint, unknown.
func Classify(tx *models.TransactionEvent, wallet string) Classification {
	if c, ok := classifySwap(tx, wallet); ok {
		return c
	}
	if c, ok := classifyNative(tx, wallet); ok {
		return c
	}
	if c, ok := classifyToken(tx, wallet); ok {
		return c
	}
	if isMintTagged(tx) {
		return Classification{Kind: KindNFTMint}
	}
	return Classification{Kind: KindUnknown}
}

func classifySwap(tx *models.TransactionEvent, wallet string) (Classification, bool) {
	if len(tx.Swaps) > 0 {
		s := tx.Swaps[0]
		return Classification{Kind: KindSwap, Swap: &s}, true
	}
	if s := synthesizeSwap(tx, wallet); s != nil {
		return Classification{Kind: KindSwap, Swap: s}, true
	}
	// A bare SWAP tag with neither a swap record nor a reconstructable
	// transfer pair falls through: the later checks may still find a
	// token-for-SOL trade to report.
	return Classification{}, false
}

// synthesizeSwap reconstructs a swap record when the provider delivered
// both an outgoing and an incoming token transfer for the wallet but no
// explicit swap. When several transfers qualify per direction, the largest
// amount wins on each side.
func synthesizeSwap(tx *models.TransactionEvent, wallet string) *models.SwapDetail {
	var in, out *models.TokenTransfer
	for i := range tx.TokenTransfers {
		tt := &tx.TokenTransfers[i]
		switch {
		case tt.ToUserAccount == wallet:
			if in == nil || tt.TokenAmount > in.TokenAmount {
				in = tt
			}
		case tt.FromUserAccount == wallet:
			if out == nil || tt.TokenAmount > out.TokenAmount {
				out = tt
			}
		}
	}
	if in == nil || out == nil {
		return nil
	}
	return &models.SwapDetail{
		InputMint:       out.Mint,
		InputAmount:     out.TokenAmount,
		OutputMint:      in.Mint,
		OutputAmount:    in.TokenAmount,
		FromUserAccount: wallet,
		Source:          tx.Source,
		Reconstructed:   true,
	}
}

func classifyNative(tx *models.TransactionEvent, wallet string) (Classification, bool) {
	// A SOL movement only counts on its own; when a token transfer also
	// touches the wallet the SOL leg is part of a trade, handled below.
	for i := range tx.TokenTransfers {
		tt := &tx.TokenTransfers[i]
		if tt.FromUserAccount == wallet || tt.ToUserAccount == wallet {
			return Classification{}, false
		}
	}
	for i := range tx.NativeTransfers {
		nt := tx.NativeTransfers[i]
		switch wallet {
		case nt.ToUserAccount:
			return Classification{Kind: KindReceiveSOL, Native: &nt, Receiving: true}, true
		case nt.FromUserAccount:
			return Classification{Kind: KindSendSOL, Native: &nt}, true
		}
	}
	return Classification{}, false
}

func classifyToken(tx *models.TransactionEvent, wallet string) (Classification, bool) {
	for i := range tx.TokenTransfers {
		tt := tx.TokenTransfers[i]
		if tt.FromUserAccount != wallet && tt.ToUserAccount != wallet {
			continue
		}
		receiving := tt.ToUserAccount == wallet

		if isNFTTransfer(tx, &tt) {
			return Classification{Kind: KindNFTTransfer, Token: &tt, Receiving: receiving}, true
		}

		if paired := pairedNative(tx, wallet, &tt, receiving); paired != nil {
			kind := KindSell
			if receiving {
				kind = KindBuy
			}
			return Classification{Kind: kind, Token: &tt, Native: paired, Receiving: receiving}, true
		}

		kind := KindSendToken
		if receiving {
			kind = KindReceiveToken
		}
		return Classification{Kind: kind, Token: &tt, Receiving: receiving}, true
	}
	return Classification{}, false
}

// pairedNative finds the SOL leg of a token-for-SOL trade: a native
// transfer between the wallet and the token transfer's counterparty,
// flowing the opposite way. Dust-sized transfers (rent, tips) are skipped;
// among the remaining candidates the largest amount wins.
func pairedNative(tx *models.TransactionEvent, wallet string, tt *models.TokenTransfer, receiving bool) *models.NativeTransfer {
	counterparty := tt.FromUserAccount
	if !receiving {
		counterparty = tt.ToUserAccount
	}
	if counterparty == "" {
		return nil
	}

	var best *models.NativeTransfer
	for i := range tx.NativeTransfers {
		nt := &tx.NativeTransfers[i]
		if nt.Amount <= constants.DustThresholdLamports {
			continue
		}
		opposite := nt.FromUserAccount == wallet && nt.ToUserAccount == counterparty
		if !receiving {
			opposite = nt.FromUserAccount == counterparty && nt.ToUserAccount == wallet
		}
		if opposite && (best == nil || nt.Amount > best.Amount) {
			best = nt
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

// isNFTTransfer reports whether a token transfer moves a non-fungible:
// exactly one unit, tagged non-fungible by the transfer's standard field,
// the transaction type, or an NFT marker in the description.
func isNFTTransfer(tx *models.TransactionEvent, tt *models.TokenTransfer) bool {
	if tt.TokenAmount != 1 {
		return false
	}
	if strings.Contains(strings.ToLower(tt.TokenStandard), "nonfungible") {
		return true
	}
	if strings.Contains(strings.ToUpper(tx.Type), "NFT") {
		return true
	}
	return strings.Contains(strings.ToUpper(tx.Description), "NFT")
}

func isMintTagged(tx *models.TransactionEvent) bool {
	typ := strings.ToUpper(tx.Type)
	if strings.Contains(typ, "NFT_MINT") || typ == "TOKEN_MINT" {
		return true
	}
	desc := strings.ToLower(tx.Description)
	return strings.Contains(desc, "nft mint") || strings.Contains(desc, " minted ")
}
