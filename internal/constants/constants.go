package constants

import "time"

// Native mint (wrapped SOL)
const WSOLMint = "So11111111111111111111111111111111111111112"

const LamportsPerSOL = 1e9

// Native transfers at or below this many lamports are ignored when pairing
// a token transfer with its SOL leg (account rent, tips, fee dust).
const DustThresholdLamports = 5000

// Redis keys
const (
	RedisKeyPricePrefix     = "price:"
	RedisKeyMarketCapPrefix = "mcap:"
	RedisKeyFDVPrefix       = "fdv:"
	RedisKeyWalletPrefix    = "wallets:"
	RedisKeyWalletIndex     = "wallets:index"
)

// Cache TTLs
const (
	PriceCacheTTL     = 30 * time.Second
	MarketCapCacheTTL = 15 * time.Minute
	FDVCacheTTL       = 5 * time.Minute
)

// Delivery queue
const (
	DiscordMinMessageSpacing = time.Second
	DiscordQueueDepth        = 256
)

// Discord embed colors
const (
	ColorBuy     = 0x2ecc71 // green
	ColorSell    = 0xe74c3c // red
	ColorInfo    = 0x3498db // blue
	ColorWarning = 0xf39c12 // yellow
	ColorNeutral = 0x95a5a6 // gray
)

// KnownToken is a well-known mint with fixed display metadata.
type KnownToken struct {
	Symbol string
	Name   string
}

// KnownTokens maps mint addresses to display metadata for the native
// currency, major stablecoins and liquid-staking derivatives plus a few
// liquid memecoins. Prices are always resolved separately.
var KnownTokens = map[string]KnownToken{
	"So11111111111111111111111111111111111111112":  {Symbol: "SOL", Name: "Solana"},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {Symbol: "USDC", Name: "USD Coin"},
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": {Symbol: "USDT", Name: "Tether USD"},
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  {Symbol: "mSOL", Name: "Marinade staked SOL"},
	"J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn": {Symbol: "jitoSOL", Name: "Jito staked SOL"},
	"bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1":  {Symbol: "bSOL", Name: "BlazeStake staked SOL"},
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": {Symbol: "ETH", Name: "Ether (Wormhole)"},
	"3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh": {Symbol: "WBTC", Name: "Wrapped BTC (Wormhole)"},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {Symbol: "BONK", Name: "Bonk"},
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  {Symbol: "JUP", Name: "Jupiter"},
	"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": {Symbol: "RAY", Name: "Raydium"},
	"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr": {Symbol: "POPCAT", Name: "Popcat"},
}

// KnownDEXes maps a lowercase substring of a provider source label to the
// canonical exchange display name. Matching is case-insensitive substring.
var KnownDEXes = map[string]string{
	"jupiter":  "Jupiter",
	"raydium":  "Raydium",
	"orca":     "Orca",
	"whirl":    "Orca",
	"pump":     "Pump.fun",
	"meteora":  "Meteora",
	"phoenix":  "Phoenix",
	"lifinity": "Lifinity",
	"moonshot": "Moonshot",
	"openbook": "OpenBook",
}
