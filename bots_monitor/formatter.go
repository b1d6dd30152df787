package bots_monitor

// Boost alert message formatting for Telegram.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/clients_api/dexscreener"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"

	"go.uber.org/zap"
)

// FormatPrice formats a USD price with tiered precision.
// Zero renders as "$0.00". Prices below 0.001 get up to 8 decimals with
// trailing zeros trimmed; below 0.000001 a compact subscript-zero form is
// attempted ("$0.0₆1234" = six zeros then the significant digits). Prices in
// [0.001, 1) get up to 6 decimals, 1 and above up to 4, both trimmed.
func FormatPrice(priceUsd float64) string {
	if priceUsd == 0 {
		return "$0.00"
	}

	if priceUsd < 0.001 {
		plain := "$" + truncDecimals(priceUsd, 8)
		if priceUsd < 0.000001 {
			if compact, ok := subscriptPrice(priceUsd); ok {
				return compact
			}
		}
		return plain
	}

	if priceUsd < 1 {
		return "$" + truncDecimals(priceUsd, 6)
	}

	return "$" + truncDecimals(priceUsd, 4)
}

// truncDecimals cuts (not rounds) a value to at most d decimals and trims
// trailing zeros.
func truncDecimals(value float64, d int) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if i := strings.Index(s, "."); i >= 0 && len(s) > i+1+d {
		s = s[:i+1+d]
	}
	return trimTrailingZeros(s)
}

var subscriptDigits = []string{"₀", "₁", "₂", "₃", "₄", "₅", "₆", "₇", "₈", "₉"}

// subscriptPrice builds the compact form for extremely small prices,
// replacing the run of leading zeros with a subscript count.
// Best-effort: ok=false means the caller should fall back to the plain form.
func subscriptPrice(priceUsd float64) (string, bool) {
	if priceUsd <= 0 || math.IsNaN(priceUsd) || math.IsInf(priceUsd, 0) {
		return "", false
	}

	exp := int(math.Floor(math.Log10(priceUsd)))
	zeros := -exp - 1
	if zeros < 6 || zeros > 99 {
		return "", false
	}

	mantissa := priceUsd * math.Pow(10, float64(-exp))
	digits := trimTrailingZeros(fmt.Sprintf("%.3f", mantissa))
	digits = strings.ReplaceAll(digits, ".", "")

	var sub strings.Builder
	if zeros >= 10 {
		sub.WriteString(subscriptDigits[zeros/10])
	}
	sub.WriteString(subscriptDigits[zeros%10])

	return fmt.Sprintf("$0.0%s%s", sub.String(), digits), true
}

func trimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// FormatAge turns a pair creation timestamp (unix ms) into a relative age
// string such as "3d 12h", "5h 30m", "45m" or "<1m". Missing or invalid
// timestamps render as "N/A".
func FormatAge(pairCreatedAtMs int64) string {
	if pairCreatedAtMs <= 0 {
		return "N/A"
	}

	elapsed := time.Since(time.UnixMilli(pairCreatedAtMs))
	if elapsed < 0 {
		return "N/A"
	}

	days := int(elapsed.Hours()) / 24
	hours := int(elapsed.Hours()) % 24
	minutes := int(elapsed.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return "<1m"
}

// platformLabel infers the display platform from the pair's dexId.
// A missing pair defaults to the Pump.fun label.
func platformLabel(pair *dexscreener.Pair) string {
	if pair == nil {
		return "Pump.fun 🔗 SOL"
	}

	dexID := strings.ToLower(pair.DexID)
	switch {
	case strings.Contains(dexID, "pump"):
		return "Pump.fun 🔗 SOL"
	case strings.Contains(dexID, "raydium"):
		return "Raydium 🔗 SOL"
	default:
		return capitalize(dexID)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// groupThousands formats a non-negative value with comma separators and no
// decimals, e.g. 1234567.8 -> "1,234,567".
func groupThousands(value float64) string {
	s := fmt.Sprintf("%.0f", value)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var out strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(digit)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

// FormatBoostMessage builds the full boost alert for one event. chain is the
// monitored chain name, used for the DexScreener link. pair may be nil, in
// which case the alert degrades to placeholder market data. An error means
// the alert must be skipped; it is never sent half-rendered.
func FormatBoostMessage(chain string, boost dexscreener.Boost, pair *dexscreener.Pair) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.LogError("Panic while formatting boost message",
				zap.Any("panic", r),
				zap.String("token", boost.TokenAddress))
			msg = ""
			err = fmt.Errorf("format boost message: %v", r)
		}
	}()

	tokenAddress := boost.TokenAddress
	if tokenAddress == "" {
		tokenAddress = "Unknown"
	}
	amount := boost.Amount
	totalAmount := boost.TotalAmount
	if totalAmount == 0 {
		totalAmount = amount
	}

	// Placeholders used when no market data could be resolved
	tokenName := "N/A"
	tokenSymbol := "N/A"
	priceUsd := 0.0
	marketCap := 0.0
	liquidityUsd := 0.0
	age := "N/A"
	var buys5m, sells5m, buys24h, sells24h int

	if pair != nil {
		if pair.BaseToken.Name != "" {
			tokenName = pair.BaseToken.Name
		}
		if pair.BaseToken.Symbol != "" {
			tokenSymbol = pair.BaseToken.Symbol
		}
		priceUsd = pair.Price()
		marketCap = pair.MarketCap
		liquidityUsd = pair.Liquidity.USD
		buys5m = pair.Txns.M5.Buys
		sells5m = pair.Txns.M5.Sells
		buys24h = pair.Txns.H24.Buys
		sells24h = pair.Txns.H24.Sells
		age = FormatAge(pair.PairCreatedAt)
	}

	priceStr := FormatPrice(priceUsd)

	liquidityPct := 0.0
	if marketCap > 0 && liquidityUsd > 0 {
		liquidityPct = liquidityUsd / marketCap * 100
	}

	platform := platformLabel(pair)

	dexscreenerURL := fmt.Sprintf("https://dexscreener.com/%s/%s", chain, tokenAddress)

	boostDisplay := fmt.Sprintf("%d⚡", amount)
	if totalAmount > amount {
		boostDisplay = fmt.Sprintf("%d⚡ (Total: %d⚡)", amount, totalAmount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚨 **DETECTED Boost %s**\n\n", boostDisplay)
	fmt.Fprintf(&b, "**Token:** %s ($%s)\n", tokenName, tokenSymbol)
	fmt.Fprintf(&b, "**CA:** `%s`\n", tokenAddress)
	fmt.Fprintf(&b, "**Platform:** %s\n\n", platform)
	b.WriteString("📊 **Market Data**\n")
	fmt.Fprintf(&b, "• **Age:** %s\n", age)
	fmt.Fprintf(&b, "• **Market Cap:** $%s\n", groupThousands(marketCap))
	fmt.Fprintf(&b, "• **Price:** %s\n", priceStr)
	fmt.Fprintf(&b, "• **Liquidity:** $%s (%.1f%%)\n\n", groupThousands(liquidityUsd), liquidityPct)
	b.WriteString("📈 **Transactions**\n")
	fmt.Fprintf(&b, "• **5m:** %d buys | %d sells\n", buys5m, sells5m)
	fmt.Fprintf(&b, "• **24h:** %d buys | %d sells\n\n", buys24h, sells24h)
	fmt.Fprintf(&b, "🔗 [DexScreener](%s)", dexscreenerURL)

	return b.String(), nil
}
