package classifier

import (
	"testing"

	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/constants"
	"github.com/aman-zulfiqar/solana-wallet-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWallet  = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	otherWallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	bonkMint    = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	jupMint     = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
)

func TestClassify_ExplicitSwap(t *testing.T) {
	tx := &models.TransactionEvent{
		Signature: "sig1",
		Type:      "SWAP",
		Source:    "JUPITER",
		FeePayer:  testWallet,
		Swaps: []models.SwapDetail{
			{
				InputMint:       constants.WSOLMint,
				InputAmount:     1_500_000_000,
				OutputMint:      bonkMint,
				OutputAmount:    42_000_000_000,
				FromUserAccount: testWallet,
				Source:          "JUPITER",
			},
		},
	}

	c := Classify(tx, testWallet)
	require.Equal(t, KindSwap, c.Kind)
	require.NotNil(t, c.Swap)
	assert.Equal(t, constants.WSOLMint, c.Swap.InputMint)
	assert.Equal(t, bonkMint, c.Swap.OutputMint)
	assert.False(t, c.Swap.Reconstructed)
}

func TestClassify_SynthesizedSwap(t *testing.T) {
	// No explicit swap record, but the wallet both sends and receives a
	// token: the classifier reconstructs the swap from the transfers.
	tx := &models.TransactionEvent{
		Signature: "sig2",
		Type:      "SWAP",
		Source:    "RAYDIUM",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Mint: constants.WSOLMint, TokenAmount: 2.5},
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 50000},
		},
	}

	c := Classify(tx, testWallet)
	require.Equal(t, KindSwap, c.Kind)
	require.NotNil(t, c.Swap)
	assert.True(t, c.Swap.Reconstructed)
	assert.Equal(t, constants.WSOLMint, c.Swap.InputMint)
	assert.Equal(t, 2.5, c.Swap.InputAmount)
	assert.Equal(t, bonkMint, c.Swap.OutputMint)
	assert.Equal(t, 50000.0, c.Swap.OutputAmount)
	assert.Equal(t, "RAYDIUM", c.Swap.Source)
}

func TestClassify_SynthesizedSwapPicksLargestLegs(t *testing.T) {
	// Multiple transfers per direction: the largest amount wins per side.
	tx := &models.TransactionEvent{
		Type: "SWAP",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Mint: constants.WSOLMint, TokenAmount: 0.01},
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Mint: constants.WSOLMint, TokenAmount: 3.0},
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 100},
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: jupMint, TokenAmount: 90000},
		},
	}

	c := Classify(tx, testWallet)
	require.Equal(t, KindSwap, c.Kind)
	assert.Equal(t, 3.0, c.Swap.InputAmount)
	assert.Equal(t, jupMint, c.Swap.OutputMint)
	assert.Equal(t, 90000.0, c.Swap.OutputAmount)
}

func TestClassify_SwapTagWithoutPairFallsThrough(t *testing.T) {
	// Tagged SWAP but only one direction of token movement: no swap can be
	// reconstructed, so the plain transfer classification applies.
	tx := &models.TransactionEvent{
		Type: "SWAP",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 500},
		},
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindReceiveToken, c.Kind)
	assert.True(t, c.Receiving)
}

func TestClassify_NativeTransfers(t *testing.T) {
	recv := &models.TransactionEvent{
		Type: "TRANSFER",
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Amount: 1_000_000_000},
		},
	}
	c := Classify(recv, testWallet)
	require.Equal(t, KindReceiveSOL, c.Kind)
	require.NotNil(t, c.Native)
	assert.True(t, c.Receiving)
	assert.Equal(t, int64(1_000_000_000), c.Native.Amount)

	sent := &models.TransactionEvent{
		Type: "TRANSFER",
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Amount: 250_000_000},
		},
	}
	c = Classify(sent, testWallet)
	assert.Equal(t, KindSendSOL, c.Kind)
	assert.False(t, c.Receiving)
}

func TestClassify_BuyFromPairedNative(t *testing.T) {
	// Token in, SOL out to the token's counterparty: a BUY.
	tx := &models.TransactionEvent{
		Type:   "TRANSFER",
		Source: "PUMP_FUN",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 1000},
		},
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Amount: 500_000_000},
		},
	}

	c := Classify(tx, testWallet)
	require.Equal(t, KindBuy, c.Kind)
	require.NotNil(t, c.Token)
	require.NotNil(t, c.Native)
	assert.Equal(t, int64(500_000_000), c.Native.Amount)
}

func TestClassify_SellFromPairedNative(t *testing.T) {
	tx := &models.TransactionEvent{
		Type: "TRANSFER",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Mint: bonkMint, TokenAmount: 1000},
		},
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Amount: 750_000_000},
		},
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindSell, c.Kind)
	assert.False(t, c.Receiving)
}

func TestClassify_DustNativeIgnored(t *testing.T) {
	// The only paired SOL movement is below the dust threshold (rent,
	// tips): the token transfer stays a plain receive.
	tx := &models.TransactionEvent{
		Type: "TRANSFER",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 1000},
		},
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Amount: constants.DustThresholdLamports},
		},
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindReceiveToken, c.Kind)
	assert.Nil(t, c.Native)
}

func TestClassify_PairedNativePicksLargest(t *testing.T) {
	tx := &models.TransactionEvent{
		Type: "TRANSFER",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 1000},
		},
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Amount: 10_000},
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Amount: 900_000_000},
		},
	}

	c := Classify(tx, testWallet)
	require.Equal(t, KindBuy, c.Kind)
	assert.Equal(t, int64(900_000_000), c.Native.Amount)
}

func TestClassify_NFTBeatsTrade(t *testing.T) {
	// Single-unit non-fungible with a paired SOL leg: reported as an NFT
	// transfer, not a BUY, even though the SOL pairing would also match.
	tx := &models.TransactionEvent{
		Type: "NFT_SALE",
		TokenTransfers: []models.TokenTransfer{
			{
				FromUserAccount: otherWallet,
				ToUserAccount:   testWallet,
				Mint:            bonkMint,
				TokenAmount:     1,
				TokenStandard:   "NonFungible",
			},
		},
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Amount: 2_000_000_000},
		},
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindNFTTransfer, c.Kind)
	assert.True(t, c.Receiving)
}

func TestClassify_SingleUnitFungibleIsNotNFT(t *testing.T) {
	// Amount 1 alone is not enough: without a non-fungible marker the
	// transfer is treated as fungible.
	tx := &models.TransactionEvent{
		Type: "TRANSFER",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: bonkMint, TokenAmount: 1},
		},
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindReceiveToken, c.Kind)
}

func TestClassify_NFTMint(t *testing.T) {
	tx := &models.TransactionEvent{
		Type:        "NFT_MINT",
		FeePayer:    testWallet,
		Description: "minted a new NFT",
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindNFTMint, c.Kind)
}

func TestClassify_Unknown(t *testing.T) {
	tx := &models.TransactionEvent{
		Type:     "UNKNOWN",
		FeePayer: testWallet,
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindUnknown, c.Kind)
}

func TestClassify_TokenLegSuppressesNative(t *testing.T) {
	// A SOL movement alongside a token transfer touching the wallet is the
	// trade's SOL leg, never reported as a standalone SOL transfer.
	tx := &models.TransactionEvent{
		Type: "TRANSFER",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Mint: bonkMint, TokenAmount: 10},
		},
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Amount: 1_000_000},
		},
	}

	c := Classify(tx, testWallet)
	assert.NotEqual(t, KindReceiveSOL, c.Kind)
	assert.NotEqual(t, KindSendSOL, c.Kind)
}

func TestClassify_Deterministic(t *testing.T) {
	tx := &models.TransactionEvent{
		Type:   "SWAP",
		Source: "ORCA",
		TokenTransfers: []models.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: otherWallet, Mint: constants.WSOLMint, TokenAmount: 1},
			{FromUserAccount: otherWallet, ToUserAccount: testWallet, Mint: jupMint, TokenAmount: 40},
		},
	}

	first := Classify(tx, testWallet)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(tx, testWallet))
	}
}

func TestClassify_UntouchedWallet(t *testing.T) {
	tx := &models.TransactionEvent{
		Type: "TRANSFER",
		NativeTransfers: []models.NativeTransfer{
			{FromUserAccount: otherWallet, ToUserAccount: otherWallet, Amount: 1_000_000_000},
		},
	}

	c := Classify(tx, testWallet)
	assert.Equal(t, KindUnknown, c.Kind)
}
