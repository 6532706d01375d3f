package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/partscout/datasheet-search/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "datasheet-search",
	Short: "Industrial part datasheet search pipeline",
	Long:  "Finds manufacturer datasheet PDFs for a part query, extracts and normalizes their specifications with Claude, and returns a comparable spec table with supplier contact pages.",
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
