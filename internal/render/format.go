package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// TruncateAddress shortens an address to its first and last four characters.
func TruncateAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}

// WalletDisplay returns the wallet's nickname, or the truncated address
// when no nickname is set.
func WalletDisplay(w models.WalletEntry) string {
	if w.Nickname != "" {
		return w.Nickname
	}
	return TruncateAddress(w.Address)
}

// FormatTokenPrice renders a unit price with adaptive precision. Token
// prices span many orders of magnitude; a fixed precision would display
// "$0.00" for legitimate low-cap tokens.
func FormatTokenPrice(price float64) string {
	abs := math.Abs(price)
	switch {
	case abs > 0 && abs < 1e-8:
		return fmt.Sprintf("%.2e", price)
	case abs < 1e-4:
		return fmt.Sprintf("%.8f", price)
	case abs < 1e-2:
		return fmt.Sprintf("%.6f", price)
	case abs < 1:
		return fmt.Sprintf("%.4f", price)
	default:
		return printer.Sprintf("%.2f", price)
	}
}

// FormatAmount renders a bulk amount fiat-style: thousands grouping, two
// fixed decimals.
func FormatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatTokenAmount renders a token quantity: whole quantities without
// decimals, fractional ones with up to six, large ones grouped.
func FormatTokenAmount(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%.0f", v)
	}
	if math.Abs(v) < 1 {
		s := strings.TrimRight(fmt.Sprintf("%.6f", v), "0")
		return strings.TrimRight(s, ".")
	}
	return printer.Sprintf("%.2f", v)
}

// FormatSOL renders a lamport amount as SOL with four decimals.
func FormatSOL(lamports int64) string {
	return printer.Sprintf("%.4f", float64(lamports)/constants.LamportsPerSOL)
}

// FormatMarketCap renders a resolved market cap, or "Unknown" when no
// resolver stage produced a value.
func FormatMarketCap(v float64, ok bool) string {
	if !ok || v <= 0 {
		return "Unknown"
	}
	return "$" + FormatAmount(v)
}

// dexSubstrings holds the KnownDEXes keys in sorted order so a label
// matching several substrings resolves the same way on every call.
var dexSubstrings = func() []string {
	keys := make([]string, 0, len(constants.KnownDEXes))
	for k := range constants.KnownDEXes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// NormalizeSource maps a provider source label to a canonical exchange
// name: case-insensitive substring match against the known-DEX table, then
// a colon-split fallback ("ExchangeName: detail"), then the raw label.
func NormalizeSource(source string) string {
	s := strings.TrimSpace(source)
	if s == "" {
		return "Unknown"
	}
	lower := strings.ToLower(s)
	for _, substr := range dexSubstrings {
		if strings.Contains(lower, substr) {
			return constants.KnownDEXes[substr]
		}
	}
	if i := strings.Index(s, ":"); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// SolscanTx returns the explorer link for a transaction signature.
func SolscanTx(signature string) string {
	return "https://solscan.io/tx/" + signature
}

// SolscanAddress returns the explorer link for an account.
func SolscanAddress(addr string) string {
	return "https://solscan.io/account/" + addr
}
