package commands

import (
	"fmt"

	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.WalletDB.Driver != "postgres" {
				return fmt.Errorf("migrations need the postgres driver, got %q", cfg.WalletDB.Driver)
			}
			cfg.WalletDB.AutoMigrate = false
			db, err := postgres.InitDB(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if args[0] == "up" {
				return migrate.RunMigrations(db, cfg.WalletDB.MigrationsPath)
			}
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			return migrate.RollbackMigrations(db, cfg.WalletDB.MigrationsPath, steps)
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}
