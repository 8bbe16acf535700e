// Package render converts a classified transaction plus resolved token data
// into channel-ready Discord embeds. Every renderer is a pure function of
// its input: enrichment (prices, market caps) is resolved by the caller
// beforehand, so rendering never blocks or retries.
package render

import (
	"fmt"
	"time"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/classifier"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/discord"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
)

// Input carries one classified (transaction, wallet) pair and the token
// data the pipeline resolved for it.
type Input struct {
	Tx     *models.TransactionEvent
	Wallet models.WalletEntry
	Class  classifier.Classification

	// Swap legs (SWAP kind).
	InputToken  models.TokenInfo
	OutputToken models.TokenInfo

	// Token leg (BUY, SELL, transfer and NFT kinds).
	Token models.TokenInfo

	SOLPrice     float64
	MarketCap    float64
	HasMarketCap bool
}

// Render dispatches to the kind-specific renderer. UNKNOWN yields nil:
// nothing worth notifying.
func Render(in Input) *discord.Message {
	switch in.Class.Kind {
	case classifier.KindSwap:
		return RenderSwap(in)
	case classifier.KindBuy, classifier.KindSell:
		return RenderTrade(in)
	case classifier.KindReceiveToken, classifier.KindSendToken:
		return RenderTokenTransfer(in)
	case classifier.KindReceiveSOL, classifier.KindSendSOL:
		return RenderNativeTransfer(in)
	case classifier.KindNFTTransfer:
		return RenderNFTTransfer(in)
	case classifier.KindNFTMint:
		return RenderNFTMint(in)
	default:
		return nil
	}
}

// RenderSwap renders an explicit or reconstructed swap. A swap with SOL on
// one side reads as a BUY or SELL of the other side, with unit price and
// market cap; a token-for-token swap uses the lighter embed without market
// cap.
func RenderSwap(in Input) *discord.Message {
	s := in.Class.Swap
	if s == nil {
		return nil
	}

	inAmt, outAmt := swapAmounts(s)
	inSym := in.InputToken.Symbol
	outSym := in.OutputToken.Symbol
	dex := NormalizeSource(swapSource(in))
	wallet := WalletDisplay(in.Wallet)

	var e discord.Embed
	switch {
	case s.InputMint == constants.WSOLMint:
		e = discord.Embed{
			Title: fmt.Sprintf("%s · BUY %s on %s", wallet, outSym, dex),
			Color: constants.ColorBuy,
			Fields: []discord.EmbedField{
				{
					Name:   wallet,
					Value:  fmt.Sprintf("SOL: -%s\n%s: +%s", FormatTokenAmount(inAmt), outSym, FormatTokenAmount(outAmt)),
					Inline: true,
				},
				{Name: "Price", Value: priceOrUnknown(in.OutputToken.Price), Inline: true},
				{Name: "Market Cap", Value: FormatMarketCap(in.MarketCap, in.HasMarketCap), Inline: true},
			},
			Footer: &discord.EmbedFooter{Text: "#" + outSym},
		}
	case s.OutputMint == constants.WSOLMint:
		e = discord.Embed{
			Title: fmt.Sprintf("%s · SELL %s on %s", wallet, inSym, dex),
			Color: constants.ColorSell,
			Fields: []discord.EmbedField{
				{
					Name:   wallet,
					Value:  fmt.Sprintf("SOL: +%s\n%s: -%s", FormatTokenAmount(outAmt), inSym, FormatTokenAmount(inAmt)),
					Inline: true,
				},
				{Name: "Price", Value: priceOrUnknown(in.InputToken.Price), Inline: true},
				{Name: "Market Cap", Value: FormatMarketCap(in.MarketCap, in.HasMarketCap), Inline: true},
			},
			Footer: &discord.EmbedFooter{Text: "#" + inSym},
		}
	default:
		e = discord.Embed{
			Title: fmt.Sprintf("%s · SWAP %s for %s on %s", wallet, inSym, outSym, dex),
			Color: constants.ColorInfo,
			Fields: []discord.EmbedField{
				{
					Name:   wallet,
					Value:  fmt.Sprintf("%s: -%s\n%s: +%s", inSym, FormatTokenAmount(inAmt), outSym, FormatTokenAmount(outAmt)),
					Inline: true,
				},
			},
			Footer: &discord.EmbedFooter{Text: "#" + outSym},
		}
	}

	finishEmbed(&e, in)
	return &discord.Message{Embeds: []discord.Embed{e}}
}

// RenderTrade renders a BUY or SELL classified from a token transfer paired
// with a SOL leg (no explicit swap record).
func RenderTrade(in Input) *discord.Message {
	tt := in.Class.Token
	sol := in.Class.Native
	if tt == nil || sol == nil {
		return nil
	}

	sym := in.Token.Symbol
	dex := NormalizeSource(in.Tx.Source)
	wallet := WalletDisplay(in.Wallet)

	var title, summary string
	color := constants.ColorSell
	if in.Class.Kind == classifier.KindBuy {
		title = fmt.Sprintf("%s · BUY %s on %s", wallet, sym, dex)
		summary = fmt.Sprintf("SOL: -%s\n%s: +%s", FormatSOL(sol.Amount), sym, FormatTokenAmount(tt.TokenAmount))
		color = constants.ColorBuy
	} else {
		title = fmt.Sprintf("%s · SELL %s on %s", wallet, sym, dex)
		summary = fmt.Sprintf("SOL: +%s\n%s: -%s", FormatSOL(sol.Amount), sym, FormatTokenAmount(tt.TokenAmount))
	}

	e := discord.Embed{
		Title: title,
		Color: color,
		Fields: []discord.EmbedField{
			{Name: wallet, Value: summary, Inline: true},
			{Name: "Price", Value: priceOrUnknown(in.Token.Price), Inline: true},
			{Name: "Market Cap", Value: FormatMarketCap(in.MarketCap, in.HasMarketCap), Inline: true},
		},
		Footer: &discord.EmbedFooter{Text: "#" + sym},
	}
	finishEmbed(&e, in)
	return &discord.Message{Embeds: []discord.Embed{e}}
}

// RenderTokenTransfer renders a plain token receive/send with no paired
// value movement.
func RenderTokenTransfer(in Input) *discord.Message {
	tt := in.Class.Token
	if tt == nil {
		return nil
	}

	sym := in.Token.Symbol
	wallet := WalletDisplay(in.Wallet)

	var title, amount, cpName, cp string
	color := constants.ColorSell
	if in.Class.Receiving {
		title = fmt.Sprintf("%s · Received %s", wallet, sym)
		amount = fmt.Sprintf("+%s %s", FormatTokenAmount(tt.TokenAmount), sym)
		cpName, cp = "From", tt.FromUserAccount
		color = constants.ColorBuy
	} else {
		title = fmt.Sprintf("%s · Sent %s", wallet, sym)
		amount = fmt.Sprintf("-%s %s", FormatTokenAmount(tt.TokenAmount), sym)
		cpName, cp = "To", tt.ToUserAccount
	}

	fields := []discord.EmbedField{
		{Name: "Amount", Value: amount, Inline: true},
	}
	if cp != "" {
		fields = append(fields, discord.EmbedField{
			Name:   cpName,
			Value:  fmt.Sprintf("[%s](%s)", TruncateAddress(cp), SolscanAddress(cp)),
			Inline: true,
		})
	}
	if in.Token.Price > 0 {
		fields = append(fields, discord.EmbedField{
			Name:   "Value",
			Value:  "$" + FormatAmount(tt.TokenAmount*in.Token.Price),
			Inline: true,
		})
	}

	e := discord.Embed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discord.EmbedFooter{Text: "#" + sym},
	}
	finishEmbed(&e, in)
	return &discord.Message{Embeds: []discord.Embed{e}}
}

// RenderNativeTransfer renders a pure SOL receive/send.
func RenderNativeTransfer(in Input) *discord.Message {
	nt := in.Class.Native
	if nt == nil {
		return nil
	}

	wallet := WalletDisplay(in.Wallet)

	var title, amount, cpName, cp string
	color := constants.ColorSell
	if in.Class.Receiving {
		title = fmt.Sprintf("%s · Received SOL", wallet)
		amount = "+" + FormatSOL(nt.Amount) + " SOL"
		cpName, cp = "From", nt.FromUserAccount
		color = constants.ColorBuy
	} else {
		title = fmt.Sprintf("%s · Sent SOL", wallet)
		amount = "-" + FormatSOL(nt.Amount) + " SOL"
		cpName, cp = "To", nt.ToUserAccount
	}

	fields := []discord.EmbedField{
		{Name: "Amount", Value: amount, Inline: true},
	}
	if cp != "" {
		fields = append(fields, discord.EmbedField{
			Name:   cpName,
			Value:  fmt.Sprintf("[%s](%s)", TruncateAddress(cp), SolscanAddress(cp)),
			Inline: true,
		})
	}
	if in.SOLPrice > 0 {
		usd := float64(nt.Amount) / constants.LamportsPerSOL * in.SOLPrice
		fields = append(fields, discord.EmbedField{Name: "Value", Value: "$" + FormatAmount(usd), Inline: true})
	}

	e := discord.Embed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discord.EmbedFooter{Text: "#SOL"},
	}
	finishEmbed(&e, in)
	return &discord.Message{Embeds: []discord.Embed{e}}
}

// RenderNFTTransfer renders a single-unit non-fungible transfer.
func RenderNFTTransfer(in Input) *discord.Message {
	tt := in.Class.Token
	if tt == nil {
		return nil
	}

	wallet := WalletDisplay(in.Wallet)
	name := in.Token.Name
	if name == "" {
		name = TruncateAddress(tt.Mint)
	}

	var title, cpName, cp string
	color := constants.ColorSell
	if in.Class.Receiving {
		title = fmt.Sprintf("%s · NFT Received", wallet)
		cpName, cp = "From", tt.FromUserAccount
		color = constants.ColorBuy
	} else {
		title = fmt.Sprintf("%s · NFT Sent", wallet)
		cpName, cp = "To", tt.ToUserAccount
	}

	fields := []discord.EmbedField{
		{Name: "NFT", Value: name, Inline: true},
		{Name: "Mint", Value: fmt.Sprintf("[%s](%s)", TruncateAddress(tt.Mint), SolscanAddress(tt.Mint)), Inline: true},
	}
	if cp != "" {
		fields = append(fields, discord.EmbedField{
			Name:   cpName,
			Value:  fmt.Sprintf("[%s](%s)", TruncateAddress(cp), SolscanAddress(cp)),
			Inline: true,
		})
	}

	e := discord.Embed{
		Title:  title,
		Color:  color,
		Fields: fields,
	}
	finishEmbed(&e, in)
	return &discord.Message{Embeds: []discord.Embed{e}}
}

// RenderNFTMint renders a transaction tagged as an NFT mint.
func RenderNFTMint(in Input) *discord.Message {
	wallet := WalletDisplay(in.Wallet)

	e := discord.Embed{
		Title: fmt.Sprintf("%s · NFT Mint", wallet),
		Color: constants.ColorInfo,
	}
	if in.Tx.Description != "" {
		e.Fields = []discord.EmbedField{
			{Name: "Details", Value: in.Tx.Description},
		}
	}
	finishEmbed(&e, in)
	return &discord.Message{Embeds: []discord.Embed{e}}
}

// finishEmbed attaches the pieces shared by every renderer: the explorer
// link and the on-chain timestamp.
func finishEmbed(e *discord.Embed, in Input) {
	e.Description = fmt.Sprintf("Transaction: [%s](%s)", TruncateAddress(in.Tx.Signature), SolscanTx(in.Tx.Signature))
	if in.Tx.Timestamp > 0 {
		e.Timestamp = time.Unix(in.Tx.Timestamp, 0).UTC().Format(time.RFC3339)
	}
}

func priceOrUnknown(price float64) string {
	if price <= 0 {
		return "Unknown"
	}
	return "$" + FormatTokenPrice(price)
}

// swapAmounts converts swap record amounts to display units. Provider
// records carry raw lamport-scale integers; reconstructed records are built
// from token transfers, which are already UI-scaled.
func swapAmounts(s *models.SwapDetail) (in, out float64) {
	if s.Reconstructed {
		return s.InputAmount, s.OutputAmount
	}
	return s.InputAmount / constants.LamportsPerSOL, s.OutputAmount / constants.LamportsPerSOL
}

func swapSource(in Input) string {
	if in.Class.Swap != nil && in.Class.Swap.Source != "" {
		return in.Class.Swap.Source
	}
	return in.Tx.Source
}
