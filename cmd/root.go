package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "invscreen",
	Short: "Investor screening pipeline",
	Long:  "Screens investor lists against a fundraising client: fetches investor websites, extracts structured enrichment via Claude models, and scores each investor with a deterministic verdict engine.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
