package commands

// Root command for Cobra CLI
// Defines the main command structure of the application

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dex-boost-bot",
	Short: "DexScreener Boost Bot - Telegram alerts for token boost purchases",
	Long: `DexScreener Boost Bot polls the public DexScreener API for token boost
purchases on a target chain, filters them against configured boost amounts,
enriches matches with pair market data, and posts formatted alerts to Telegram.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
