package bots_monitor

import (
	"testing"
	"time"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/clients_api/dexscreener"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"zero", 0, "$0.00"},
		{"large trimmed to four decimals", 1234.56789, "$1234.5678"},
		{"above one no trailing zeros", 12.5, "$12.5"},
		{"integer price", 3, "$3"},
		{"below one six decimals", 0.123456789, "$0.123456"},
		{"below one trimmed", 0.5, "$0.5"},
		{"small eight decimals", 0.0005, "$0.0005"},
		{"small trimmed", 0.00012, "$0.00012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}

func TestFormatPriceSubscript(t *testing.T) {
	// Six leading zeros collapse into a subscript count
	assert.Equal(t, "$0.0₆1234", FormatPrice(0.0000001234))
	assert.Equal(t, "$0.0₇5", FormatPrice(0.00000005))

	// Just above the subscript threshold the plain form is kept
	assert.Equal(t, "$0.0000012", FormatPrice(0.0000012))
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "N/A", FormatAge(0))
	assert.Equal(t, "N/A", FormatAge(-1))

	// Future timestamps are invalid input
	assert.Equal(t, "N/A", FormatAge(time.Now().Add(time.Hour).UnixMilli()))

	now := time.Now()
	assert.Equal(t, "<1m", FormatAge(now.Add(-30*time.Second).UnixMilli()))
	assert.Equal(t, "1m", FormatAge(now.Add(-90*time.Second).UnixMilli()))
	assert.Equal(t, "45m", FormatAge(now.Add(-45*time.Minute-10*time.Second).UnixMilli()))
	assert.Equal(t, "3h 30m", FormatAge(now.Add(-3*time.Hour-30*time.Minute-5*time.Second).UnixMilli()))
	assert.Equal(t, "1d 2h", FormatAge(now.Add(-26*time.Hour-time.Minute).UnixMilli()))
}

func TestFormatBoostMessageWithMarketData(t *testing.T) {
	boost := dexscreener.Boost{
		ChainID:      "solana",
		TokenAddress: "So11111111111111111111111111111111111111112",
		Amount:       500,
		TotalAmount:  500,
	}
	pair := &dexscreener.Pair{
		ChainID:   "solana",
		DexID:     "raydium",
		PriceUsd:  "0.042",
		MarketCap: 500000,
		Liquidity: dexscreener.Liquidity{USD: 50000},
		BaseToken: dexscreener.BaseToken{Name: "Test Token", Symbol: "TST"},
		Txns: dexscreener.PairTxns{
			M5:  dexscreener.TxCounts{Buys: 12, Sells: 3},
			H24: dexscreener.TxCounts{Buys: 240, Sells: 180},
		},
		PairCreatedAt: time.Now().Add(-2 * time.Hour).UnixMilli(),
	}

	msg, err := FormatBoostMessage("solana", boost, pair)
	require.NoError(t, err)

	assert.Contains(t, msg, "500⚡")
	assert.NotContains(t, msg, "Total:")
	assert.Contains(t, msg, "Test Token ($TST)")
	assert.Contains(t, msg, "`So11111111111111111111111111111111111111112`")
	assert.Contains(t, msg, "Raydium 🔗 SOL")
	assert.Contains(t, msg, "**Market Cap:** $500,000")
	assert.Contains(t, msg, "$0.042")
	assert.Contains(t, msg, "$50,000 (10.0%)")
	assert.Contains(t, msg, "12 buys | 3 sells")
	assert.Contains(t, msg, "240 buys | 180 sells")
	assert.Contains(t, msg, "https://dexscreener.com/solana/So11111111111111111111111111111111111111112")
}

func TestFormatBoostMessageTotalAboveAmount(t *testing.T) {
	boost := dexscreener.Boost{
		ChainID:      "solana",
		TokenAddress: "addr",
		Amount:       100,
		TotalAmount:  600,
	}

	msg, err := FormatBoostMessage("solana", boost, nil)
	require.NoError(t, err)
	assert.Contains(t, msg, "100⚡ (Total: 600⚡)")
}

func TestFormatBoostMessageWithoutMarketData(t *testing.T) {
	boost := dexscreener.Boost{
		ChainID:      "solana",
		TokenAddress: "addr",
		Amount:       500,
		TotalAmount:  500,
	}

	msg, err := FormatBoostMessage("solana", boost, nil)
	require.NoError(t, err)

	assert.Contains(t, msg, "N/A")
	assert.Contains(t, msg, "$0.00")
	assert.Contains(t, msg, "(0.0%)")
	assert.Contains(t, msg, "Pump.fun 🔗 SOL")
	assert.Contains(t, msg, "https://dexscreener.com/solana/addr")
}

func TestPlatformLabel(t *testing.T) {
	assert.Equal(t, "Pump.fun 🔗 SOL", platformLabel(nil))
	assert.Equal(t, "Pump.fun 🔗 SOL", platformLabel(&dexscreener.Pair{DexID: "pumpswap"}))
	assert.Equal(t, "Raydium 🔗 SOL", platformLabel(&dexscreener.Pair{DexID: "raydium-clmm"}))
	assert.Equal(t, "Meteora", platformLabel(&dexscreener.Pair{DexID: "meteora"}))
}
