package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/needlebench/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "needlebench",
	Short: "Needle-in-a-haystack long context retrieval benchmark",
	Long:  "Inserts a fact at controlled token depths inside long essay contexts, asks a model to retrieve it, and scores each answer with a judge model across a grid of context lengths and depths.",
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
