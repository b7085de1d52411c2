// cmd/orianna/main.go
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orianna-agent/internal/common/config"
	"orianna-agent/internal/common/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "orianna",
		Short:         "Personal assistant that routes utterances to calendar, tasks, mail, web search and transactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./configs/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newAskCmd(),
		newSyncSheetsCmd(),
		newUpdateTransactionsCmd(),
		newAuthorizeCmd(),
		newToolsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// bootstrap loads configuration and builds the zap logger and its adapter.
func bootstrap() (*config.Config, *zap.Logger, logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	return cfg, zapLog, logger.NewZapAdapter(zapLog), nil
}
