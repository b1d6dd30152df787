package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - full runtime configuration of the boost bot
type Config struct {
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Dexscreener DexscreenerConfig `mapstructure:"dexscreener"`
	Scan        ScanConfig        `mapstructure:"scan"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// DexscreenerConfig - DexScreener API client settings
type DexscreenerConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	BoostTimeout    int    `mapstructure:"boost_timeout"` // seconds, boost list endpoint
	TokenTimeout    int    `mapstructure:"token_timeout"` // seconds, search/token endpoints
	MaxResponseSize int64  `mapstructure:"max_response_size"`
}

// ScanConfig - scan loop behaviour
type ScanConfig struct {
	Interval             int    `mapstructure:"interval"`               // seconds between scan cycles
	BoostAmounts         []int  `mapstructure:"boost_amounts"`          // target boost amounts (exact match)
	TargetChain          string `mapstructure:"target_chain"`           // chainId to monitor, e.g. "solana"
	CacheCleanupInterval int    `mapstructure:"cache_cleanup_interval"` // in scan cycles
	MaxCachedBoosts      int    `mapstructure:"max_cached_boosts"`
	MessagePacingMs      int    `mapstructure:"message_pacing_ms"` // pause between consecutive alerts
}

// LoadConfig merges configuration sources in priority order:
// 1. defaults
// 2. config.yaml
// 3. .env file / environment
// 4. command-line flags
func LoadConfig() (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // missing config.yaml is fine

	v.AutomaticEnv()

	setupEnvAliases(v)

	setupFlags(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// BOOST_AMOUNTS arrives as a comma string from .env, as a list from YAML.
	// Viper hands us whichever shape won the merge.
	if raw := v.Get("scan.boost_amounts"); raw != nil {
		amounts, err := parseBoostAmounts(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid scan.boost_amounts: %w", err)
		}
		config.Scan.BoostAmounts = amounts
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func parseBoostAmounts(raw interface{}) ([]int, error) {
	switch val := raw.(type) {
	case string:
		if val == "" {
			return nil, nil
		}
		parts := strings.Split(val, ",")
		result := make([]int, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			n, err := strconv.Atoi(trimmed)
			if err != nil {
				return nil, fmt.Errorf("not an integer: %q", trimmed)
			}
			result = append(result, n)
		}
		return result, nil
	case []int:
		return val, nil
	case []interface{}:
		result := make([]int, 0, len(val))
		for _, item := range val {
			switch n := item.(type) {
			case int:
				result = append(result, n)
			case int64:
				result = append(result, int(n))
			case float64:
				result = append(result, int(n))
			case string:
				parsed, err := strconv.Atoi(strings.TrimSpace(n))
				if err != nil {
					return nil, fmt.Errorf("not an integer: %q", n)
				}
				result = append(result, parsed)
			default:
				return nil, fmt.Errorf("unsupported element %v", item)
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}
}

func setupEnvAliases(v *viper.Viper) {
	// TELEGRAM_BOT_TOKEN -> telegram.bot_token and so on

	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")

	v.BindEnv("dexscreener.base_url", "DEXSCREENER_BASE_URL")
	v.BindEnv("dexscreener.boost_timeout", "DEXSCREENER_BOOST_TIMEOUT")
	v.BindEnv("dexscreener.token_timeout", "DEXSCREENER_TOKEN_TIMEOUT")
	v.BindEnv("dexscreener.max_response_size", "DEXSCREENER_MAX_RESPONSE_SIZE")

	v.BindEnv("scan.interval", "SCAN_INTERVAL")
	v.BindEnv("scan.boost_amounts", "BOOST_AMOUNTS")
	v.BindEnv("scan.target_chain", "TARGET_CHAIN")
	v.BindEnv("scan.cache_cleanup_interval", "CACHE_CLEANUP_INTERVAL")
	v.BindEnv("scan.max_cached_boosts", "MAX_CACHED_BOOSTS")
	v.BindEnv("scan.message_pacing_ms", "MESSAGE_PACING_MS")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")

	v.SetDefault("dexscreener.base_url", "https://api.dexscreener.com")
	v.SetDefault("dexscreener.boost_timeout", 10)
	v.SetDefault("dexscreener.token_timeout", 5)
	v.SetDefault("dexscreener.max_response_size", 10*1024*1024) // 10MB

	v.SetDefault("scan.interval", 10)
	v.SetDefault("scan.boost_amounts", []int{500, 100})
	v.SetDefault("scan.target_chain", "solana")
	v.SetDefault("scan.cache_cleanup_interval", 10)
	v.SetDefault("scan.max_cached_boosts", 500)
	v.SetDefault("scan.message_pacing_ms", 1000)
}

func setupFlags(v *viper.Viper) {
	if pflag.Parsed() {
		v.BindPFlags(pflag.CommandLine)
		return
	}

	pflag.String("telegram.bot_token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
	pflag.String("telegram.chat_id", "", "Telegram chat ID for alerts (env: TELEGRAM_CHAT_ID)")

	pflag.String("dexscreener.base_url", "https://api.dexscreener.com", "DexScreener API base URL (env: DEXSCREENER_BASE_URL)")
	pflag.Int("dexscreener.boost_timeout", 10, "Boost list request timeout in seconds (env: DEXSCREENER_BOOST_TIMEOUT)")
	pflag.Int("dexscreener.token_timeout", 5, "Token lookup request timeout in seconds (env: DEXSCREENER_TOKEN_TIMEOUT)")
	pflag.Int64("dexscreener.max_response_size", 10*1024*1024, "Max response size in bytes (env: DEXSCREENER_MAX_RESPONSE_SIZE)")

	pflag.Int("scan.interval", 10, "Seconds between scan cycles (env: SCAN_INTERVAL)")
	pflag.String("scan.boost_amounts", "", "Comma-separated target boost amounts (env: BOOST_AMOUNTS)")
	pflag.String("scan.target_chain", "solana", "Chain to monitor (env: TARGET_CHAIN)")
	pflag.Int("scan.cache_cleanup_interval", 10, "Cache cleanup interval in scan cycles (env: CACHE_CLEANUP_INTERVAL)")
	pflag.Int("scan.max_cached_boosts", 500, "Max cached boost identities (env: MAX_CACHED_BOOSTS)")
	pflag.Int("scan.message_pacing_ms", 1000, "Pause between consecutive alerts in ms (env: MESSAGE_PACING_MS)")

	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)
}

func validateConfig(cfg *Config) error {
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(cfg.Scan.BoostAmounts) == 0 {
		return fmt.Errorf("scan.boost_amounts must contain at least one amount")
	}
	if cfg.Scan.Interval <= 0 {
		return fmt.Errorf("scan.interval must be positive")
	}
	if cfg.Scan.MaxCachedBoosts <= 0 {
		return fmt.Errorf("scan.max_cached_boosts must be positive")
	}
	return nil
}
