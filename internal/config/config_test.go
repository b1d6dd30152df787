package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoostAmounts(t *testing.T) {
	from := func(raw interface{}) []int {
		t.Helper()
		amounts, err := parseBoostAmounts(raw)
		require.NoError(t, err)
		return amounts
	}

	assert.Equal(t, []int{500, 100}, from("500,100"))
	assert.Equal(t, []int{500, 100}, from(" 500 , 100 "))
	assert.Equal(t, []int{500}, from([]interface{}{500}))
	assert.Equal(t, []int{500, 100}, from([]interface{}{float64(500), "100"}))
	assert.Empty(t, from(""))

	_, err := parseBoostAmounts("500,abc")
	assert.Error(t, err)
	_, err = parseBoostAmounts(true)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Telegram: TelegramConfig{BotToken: "token", ChatID: "-100123"},
		Scan: ScanConfig{
			Interval:        10,
			BoostAmounts:    []int{500},
			TargetChain:     "solana",
			MaxCachedBoosts: 500,
		},
	}
	require.NoError(t, validateConfig(&valid))

	missingToken := valid
	missingToken.Telegram.BotToken = ""
	assert.Error(t, validateConfig(&missingToken))

	missingChat := valid
	missingChat.Telegram.ChatID = ""
	assert.Error(t, validateConfig(&missingChat))

	noAmounts := valid
	noAmounts.Scan.BoostAmounts = nil
	assert.Error(t, validateConfig(&noAmounts))

	badInterval := valid
	badInterval.Scan.Interval = 0
	assert.Error(t, validateConfig(&badInterval))
}
