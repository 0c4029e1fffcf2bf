package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/LavaJover/shvark-wallet-service/internal/config"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.WalletConfig
)

func Execute() error {
	root := &cobra.Command{
		Use:           "wallet-service",
		Short:         "Multi-currency wallet and exchange service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				slog.Debug("no .env file loaded", "error", err)
			}
			if configPath == "" {
				configPath = os.Getenv("WALLET_CONFIG_PATH")
			}
			if configPath == "" {
				return fmt.Errorf("config path required (--config or WALLET_CONFIG_PATH)")
			}

			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			logger.New(cfg.LogConfig)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config (default $WALLET_CONFIG_PATH)")

	root.AddCommand(serveCmd(), migrateCmd(), poolInitCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
