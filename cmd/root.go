package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/founder-scout/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "founder-scout",
	Short: "Founder potential scoring from public web evidence",
	Long:  "Collects public evidence about a person (LinkedIn profile, personal sites, press), attributes it to the right individual, and scores founder potential with an LLM rubric.",
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
