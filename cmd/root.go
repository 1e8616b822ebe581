package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/precall-audit/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "precall-audit",
	Short: "Pre-call audit engine for local service businesses",
	Long:  "Resolves a business against the places directory, checks local-pack visibility and website lead capture, and produces a deterministic audit verdict for sales pre-call prep.",
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
